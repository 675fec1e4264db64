// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package badger

import (
	"encoding/json"
	"fmt"

	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/varint"

	"github.com/poiesic/corpora/core"
	"github.com/poiesic/corpora/index"
)

var vectorSer = ord.NewSliceSer[float32](varint.Float32)

// MarshalRecord serializes an IndexedVector to bytes using the MUS format.
func MarshalRecord(v *core.IndexedVector) []byte {
	size := ord.String.Size(v.ID) +
		vectorSer.Size(v.Vector) +
		ord.String.Size(v.Metadata.FileID) +
		ord.String.Size(v.Metadata.Name) +
		ord.String.Size(v.Metadata.Text) +
		varint.Int.Size(v.Metadata.Seq) +
		ord.String.Size(v.Metadata.ContentType)

	bs := make([]byte, size)
	n := ord.String.Marshal(v.ID, bs)
	n += vectorSer.Marshal(v.Vector, bs[n:])
	n += ord.String.Marshal(v.Metadata.FileID, bs[n:])
	n += ord.String.Marshal(v.Metadata.Name, bs[n:])
	n += ord.String.Marshal(v.Metadata.Text, bs[n:])
	n += varint.Int.Marshal(v.Metadata.Seq, bs[n:])
	ord.String.Marshal(v.Metadata.ContentType, bs[n:])
	return bs
}

// UnmarshalRecord deserializes an IndexedVector from bytes. Records written
// by pre-MUS deployments were JSON with map-shaped metadata; those are
// decoded through the one normalization step in the index package.
func UnmarshalRecord(data []byte) (*core.IndexedVector, error) {
	v, err := unmarshalMUS(data)
	if err == nil {
		return v, nil
	}

	if legacy, jsonErr := unmarshalLegacy(data); jsonErr == nil {
		return legacy, nil
	}

	return nil, fmt.Errorf("%w: %w", index.ErrSerializationFailed, err)
}

func unmarshalMUS(data []byte) (*core.IndexedVector, error) {
	var v core.IndexedVector
	var n int

	id, n, err := ord.String.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	v.ID = id
	rest := data[n:]

	v.Vector, n, err = vectorSer.Unmarshal(rest)
	if err != nil {
		return nil, err
	}
	rest = rest[n:]

	v.Metadata.FileID, n, err = ord.String.Unmarshal(rest)
	if err != nil {
		return nil, err
	}
	rest = rest[n:]

	v.Metadata.Name, n, err = ord.String.Unmarshal(rest)
	if err != nil {
		return nil, err
	}
	rest = rest[n:]

	v.Metadata.Text, n, err = ord.String.Unmarshal(rest)
	if err != nil {
		return nil, err
	}
	rest = rest[n:]

	v.Metadata.Seq, n, err = varint.Int.Unmarshal(rest)
	if err != nil {
		return nil, err
	}
	rest = rest[n:]

	v.Metadata.ContentType, _, err = ord.String.Unmarshal(rest)
	if err != nil {
		return nil, err
	}

	return &v, nil
}

// legacyRecord is the JSON shape used before the MUS codec.
type legacyRecord struct {
	ID       string         `json:"id"`
	Vector   []float32      `json:"vector"`
	Metadata map[string]any `json:"metadata"`
}

func unmarshalLegacy(data []byte) (*core.IndexedVector, error) {
	var lr legacyRecord
	if err := json.Unmarshal(data, &lr); err != nil {
		return nil, err
	}
	if lr.ID == "" {
		return nil, fmt.Errorf("legacy record without id")
	}
	return &core.IndexedVector{
		ID:       lr.ID,
		Vector:   lr.Vector,
		Metadata: index.NormalizeMetadata(lr.Metadata),
	}, nil
}
