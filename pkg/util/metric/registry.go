// Copyright 2015 The Cockroach Authors.
//
// Use of this software is governed by the CockroachDB Software License
// included in the /LICENSE file.

package metric

import (
	"encoding/json"
	"reflect"

	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/spatialindex/pkg/util/syncutil"
)

// A Registry is a list of metrics. It provides a simple way of iterating
// over them and marshaling them to JSON.
type Registry struct {
	syncutil.Mutex
	tracked map[string]Iterable
	// order preserves registration order for deterministic iteration.
	order []string
}

// NewRegistry creates a new Registry.
func NewRegistry() *Registry {
	return &Registry{
		tracked: map[string]Iterable{},
	}
}

// AddMetric adds the passed-in metric to the registry. Registering two
// metrics with the same name is an error.
func (r *Registry) AddMetric(metric Iterable) error {
	r.Lock()
	defer r.Unlock()
	name := metric.GetName()
	if _, ok := r.tracked[name]; ok {
		return errors.Newf("metric %q already registered", name)
	}
	r.tracked[name] = metric
	r.order = append(r.order, name)
	return nil
}

// MustAddMetric calls AddMetric and panics on error.
func (r *Registry) MustAddMetric(metric Iterable) {
	if err := r.AddMetric(metric); err != nil {
		panic(errors.NewAssertionErrorWithWrappedErrf(err, "adding metric"))
	}
}

// AddMetricStruct examines all fields of metricStruct and adds
// all Iterable fields to the registry. Nil fields are skipped.
func (r *Registry) AddMetricStruct(metricStruct interface{}) {
	v := reflect.ValueOf(metricStruct)
	if v.Kind() == reflect.Ptr {
		v = v.Elem()
	}
	t := v.Type()
	for i := 0; i < v.NumField(); i++ {
		vfield, tfield := v.Field(i), t.Field(i)
		if !tfield.IsExported() {
			continue
		}
		if vfield.Kind() == reflect.Ptr && vfield.IsNil() {
			continue
		}
		if m, ok := vfield.Interface().(Iterable); ok {
			r.MustAddMetric(m)
		}
	}
}

// Contains returns whether a metric with the given name is registered.
func (r *Registry) Contains(name string) bool {
	r.Lock()
	defer r.Unlock()
	_, ok := r.tracked[name]
	return ok
}

// Each calls the given closure for all metrics, in registration order.
func (r *Registry) Each(f func(name string, val interface{})) {
	r.Lock()
	defer r.Unlock()
	for _, name := range r.order {
		r.tracked[name].Inspect(func(v interface{}) {
			f(name, v)
		})
	}
}

// Select calls the given closure for the selected metric names.
func (r *Registry) Select(metrics map[string]struct{}, f func(name string, val interface{})) {
	r.Lock()
	defer r.Unlock()
	for name := range metrics {
		if metric, ok := r.tracked[name]; ok {
			metric.Inspect(func(v interface{}) {
				f(name, v)
			})
		}
	}
}

// MarshalJSON marshals to JSON.
func (r *Registry) MarshalJSON() ([]byte, error) {
	m := make(map[string]interface{})
	r.Each(func(name string, v interface{}) {
		switch t := v.(type) {
		case *Counter:
			m[name] = t.Count()
		case *Gauge:
			m[name] = t.Value()
		default:
			m[name] = v
		}
	})
	return json.Marshal(m)
}
