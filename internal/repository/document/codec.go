package document

import (
	jsoniter "github.com/json-iterator/go"
	ierr "github.com/nexusai/billing/internal/errors"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

func encode(collection, id string, v any) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHintf("Failed to encode %s", collection).
			WithReportableDetails(map[string]any{"collection": collection, "id": id}).
			Mark(ierr.ErrSystem)
	}
	return data, nil
}

func decode[T any](collection string, data []byte) (*T, error) {
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, ierr.WithError(err).
			WithHintf("Failed to decode %s", collection).
			WithReportableDetails(map[string]any{"collection": collection}).
			Mark(ierr.ErrDatabase)
	}
	return &v, nil
}

func decodeAll[T any](collection string, docs [][]byte) ([]*T, error) {
	out := make([]*T, 0, len(docs))
	for _, data := range docs {
		v, err := decode[T](collection, data)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}
