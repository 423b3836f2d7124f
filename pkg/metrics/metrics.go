package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

// Recorder holds the gauges describing one conversion run. Each run uses its
// own registry so values never leak between runs.
type Recorder struct {
	registry *prometheus.Registry

	entities *prometheus.GaugeVec
	edges    *prometheus.GaugeVec

	rdfTriples    prometheus.Gauge
	rdfSubjects   prometheus.Gauge
	rdfPredicates prometheus.Gauge
	rdfObjects    prometheus.Gauge

	kgeEntities  prometheus.Gauge
	kgeRelations prometheus.Gauge
	kgeTriples   prometheus.Gauge

	globalIDs prometheus.Gauge
}

// NewRecorder creates a recorder with all gauges registered. runID is
// attached to every series as a constant label.
func NewRecorder(runID string) *Recorder {
	labels := prometheus.Labels{"run_id": runID}
	gauge := func(name, help string) prometheus.Gauge {
		return prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace:   "kgconv",
			Name:        name,
			Help:        help,
			ConstLabels: labels,
		})
	}

	r := &Recorder{
		registry: prometheus.NewRegistry(),
		entities: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace:   "kgconv",
			Name:        "entities",
			Help:        "Entities loaded per entity type",
			ConstLabels: labels,
		}, []string{"type"}),
		edges: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace:   "kgconv",
			Name:        "edges",
			Help:        "Edges converted per relation and exporter",
			ConstLabels: labels,
		}, []string{"relation", "exporter"}),
		rdfTriples:    gauge("rdf_triples", "Distinct RDF statements written"),
		rdfSubjects:   gauge("rdf_subjects", "Distinct RDF subjects"),
		rdfPredicates: gauge("rdf_predicates", "Distinct RDF predicates"),
		rdfObjects:    gauge("rdf_objects", "Distinct RDF objects"),
		kgeEntities:   gauge("kge_entities", "Lines written to entities.dict"),
		kgeRelations:  gauge("kge_relations", "Lines written to relations.dict"),
		kgeTriples:    gauge("kge_triples", "Lines written to train.txt"),
		globalIDs:     gauge("global_ids", "Size of the global ID space"),
	}

	r.registry.MustRegister(
		r.entities, r.edges,
		r.rdfTriples, r.rdfSubjects, r.rdfPredicates, r.rdfObjects,
		r.kgeEntities, r.kgeRelations, r.kgeTriples,
		r.globalIDs,
	)
	return r
}

func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

func (r *Recorder) SetEntities(entityType string, n int) {
	r.entities.WithLabelValues(entityType).Set(float64(n))
}

// AddEdges accumulates because one relation name can link several type pairs.
func (r *Recorder) AddEdges(relation, exporter string, n int) {
	r.edges.WithLabelValues(relation, exporter).Add(float64(n))
}

func (r *Recorder) SetRDF(triples, subjects, predicates, objects int) {
	r.rdfTriples.Set(float64(triples))
	r.rdfSubjects.Set(float64(subjects))
	r.rdfPredicates.Set(float64(predicates))
	r.rdfObjects.Set(float64(objects))
}

func (r *Recorder) SetKGE(entities, relations, triples int) {
	r.kgeEntities.Set(float64(entities))
	r.kgeRelations.Set(float64(relations))
	r.kgeTriples.Set(float64(triples))
}

func (r *Recorder) SetGlobalIDs(n int) {
	r.globalIDs.Set(float64(n))
}

// WriteTextfile writes all gauges in the Prometheus text format, suitable for
// the node exporter textfile collector. The file is replaced atomically.
func (r *Recorder) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("failed to write metrics to %s: %w", path, err)
	}
	return nil
}
