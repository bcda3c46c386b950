package model

import "encoding/json"

// ObjectIDField is the attribute carrying the feature's object id
const ObjectIDField = "objectid"

// Feature is one feature snapshot: a bag of attributes plus an optional geometry.
//
// Geometry serialization is owned by the feature I/O layer: this client treats
// geometries as opaque JSON and compares them byte-wise only.
type Feature struct {
	Attributes map[string]interface{} `json:"attributes,omitempty"`
	Geometry   json.RawMessage        `json:"geometry,omitempty"`
	_          struct{}
}

// ObjectID extracts the object id attribute, when present.
//
// JSON numbers decode as float64, so both int64 and float64 representations
// are accepted.
func (f Feature) ObjectID() (int64, bool) {
	v, ok := f.Attributes[ObjectIDField]
	if !ok {
		return 0, false
	}
	switch id := v.(type) {
	case int64:
		return id, true
	case int:
		return int64(id), true
	case float64:
		return int64(id), true
	case json.Number:
		n, err := id.Int64()
		if err != nil {
			return 0, false
		}
		return n, true
	default:
		return 0, false
	}
}

// Clone makes a deep copy of the feature
func (f Feature) Clone() Feature {
	clone := Feature{}
	if f.Attributes != nil {
		clone.Attributes = make(map[string]interface{}, len(f.Attributes))
		for k, v := range f.Attributes {
			clone.Attributes[k] = v
		}
	}
	if f.Geometry != nil {
		clone.Geometry = append(json.RawMessage{}, f.Geometry...)
	}
	return clone
}

// Features is a slice of feature snapshots
type Features []Feature
