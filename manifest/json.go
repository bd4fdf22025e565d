package manifest

import (
	"encoding/json"
	"fmt"
	"runtime"
	"sort"
	"time"

	"modelpack/dependency"
)

type jsonManifest struct {
	Version      int                        `json:"version"`
	Meta         jsonMeta                   `json:"meta"`
	Dependencies map[string]json.RawMessage `json:"dependencies"`
	Slots        map[string]jsonSlot        `json:"slots"`
}

type jsonMeta struct {
	CreatedAt float64 `json:"created_at"`
	UpdatedAt float64 `json:"updated_at"`
	Go        string  `json:"go"`
}

type jsonSlot struct {
	SHA256       string   `json:"serialized_sha256_hash"`
	Codec        string   `json:"serializer"`
	Dependencies []string `json:"dependencies"`
}

// Encode marshals the manifest to its on-disk JSON representation.
func Encode(m *Manifest) ([]byte, error) {
	deps := make(map[string]json.RawMessage, len(m.dependencies))
	for id, dep := range m.dependencies {
		payload := dep.Params()
		if payload == nil {
			payload = map[string]any{}
		}
		tagged := make(map[string]any, len(payload)+1)
		for k, v := range payload {
			tagged[k] = v
		}
		tagged["type"] = dep.Type()
		raw, err := json.Marshal(tagged)
		if err != nil {
			return nil, fmt.Errorf("encode dependency %s: %w", id, err)
		}
		deps[id] = raw
	}

	slots := make(map[string]jsonSlot, len(m.slots))
	for key, slot := range m.slots {
		depIDs := append([]string(nil), slot.DependencyIDs...)
		sort.Strings(depIDs)
		slots[key] = jsonSlot{
			SHA256:       slot.SHA256,
			Codec:        slot.CodecTag,
			Dependencies: depIDs,
		}
	}

	doc := jsonManifest{
		Version: ProtocolVersion,
		Meta: jsonMeta{
			CreatedAt: float64(m.CreatedAt.UnixNano()) / 1e9,
			UpdatedAt: float64(m.UpdatedAt.UnixNano()) / 1e9,
			Go:        runtime.Version(),
		},
		Dependencies: deps,
		Slots:        slots,
	}
	return json.Marshal(doc)
}

// Decode unmarshals a manifest from its on-disk JSON representation,
// reconstructing dependencies through registry. It rejects an incompatible
// protocol version, a slot referencing an undeclared dependency id, or a
// dependency whose recomputed id doesn't match its map key, all as
// WrongFormatError.
func Decode(data []byte, registry *dependency.Registry) (*Manifest, error) {
	var doc jsonManifest
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, &WrongFormatError{Reason: fmt.Sprintf("malformed manifest json: %v", err)}
	}
	if doc.Version != ProtocolVersion {
		return nil, &WrongFormatError{Reason: fmt.Sprintf("incompatible manifest version: %d", doc.Version)}
	}

	deps := make(map[string]dependency.Dependency, len(doc.Dependencies))
	for id, raw := range doc.Dependencies {
		var params map[string]any
		if err := json.Unmarshal(raw, &params); err != nil {
			return nil, &WrongFormatError{Reason: fmt.Sprintf("malformed dependency %s: %v", id, err)}
		}
		tag, _ := params["type"].(string)
		delete(params, "type")

		dep, err := registry.ByType(tag, params)
		if err != nil {
			return nil, &WrongFormatError{Reason: fmt.Sprintf("cannot load dependency %s: %v", id, err)}
		}
		if dep.ID() != id {
			return nil, &WrongFormatError{Reason: fmt.Sprintf("dependency %s has mismatched id %s", id, dep.ID())}
		}
		deps[id] = dep
	}

	slots := make(map[string]Slot, len(doc.Slots))
	for key, js := range doc.Slots {
		if js.SHA256 == "" {
			return nil, &WrongFormatError{Reason: fmt.Sprintf("slot %s is missing its hash field", key)}
		}
		if js.Codec == "" {
			return nil, &WrongFormatError{Reason: fmt.Sprintf("slot %s has no serializer tag", key)}
		}
		for _, depID := range js.Dependencies {
			if _, ok := deps[depID]; !ok {
				return nil, &WrongFormatError{Reason: fmt.Sprintf("slot %s references unknown dependency %s", key, depID)}
			}
		}
		slots[key] = Slot{
			Key:           key,
			CodecTag:      js.Codec,
			SHA256:        js.SHA256,
			DependencyIDs: append([]string(nil), js.Dependencies...),
		}
	}

	createdAt := time.Unix(0, int64(doc.Meta.CreatedAt*1e9)).UTC()
	updatedAt := time.Unix(0, int64(doc.Meta.UpdatedAt*1e9)).UTC()

	return &Manifest{
		CreatedAt:    createdAt,
		UpdatedAt:    updatedAt,
		dependencies: deps,
		slots:        slots,
	}, nil
}
