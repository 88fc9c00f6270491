package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/yndnr/linkdrop-go/internal/core/domain"
)

// maxExpirySeconds rejects expiry values time.Time cannot represent sensibly.
const maxExpirySeconds = 1e12

var errInvalidRecord = errors.New("invalid token record")

// record is the persisted form of one token: {"path": "...", "expiry": 1.7e9}.
// Expiry is Unix seconds and may carry a fractional part.
type record struct {
	Path   string   `json:"path"`
	Expiry *float64 `json:"expiry"`
}

func recordFromToken(t *domain.Token) record {
	exp := unixSeconds(t.ExpiresAt)
	return record{Path: t.FilePath, Expiry: &exp}
}

func (r record) toToken(id string) (*domain.Token, error) {
	if id == "" || r.Path == "" || r.Expiry == nil {
		return nil, errInvalidRecord
	}
	if math.IsNaN(*r.Expiry) || math.Abs(*r.Expiry) > maxExpirySeconds {
		return nil, errInvalidRecord
	}
	return &domain.Token{
		ID:        id,
		FilePath:  r.Path,
		ExpiresAt: fromUnixSeconds(*r.Expiry),
	}, nil
}

func encodeRecord(t *domain.Token) ([]byte, error) {
	return json.Marshal(recordFromToken(t))
}

func decodeRecord(id string, data []byte) (*domain.Token, error) {
	var r record
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("%w: %v", errInvalidRecord, err)
	}
	return r.toToken(id)
}

// encodeDocument renders the whole mapping as one JSON object.
func encodeDocument(tokens map[string]*domain.Token) ([]byte, error) {
	doc := make(map[string]record, len(tokens))
	for id, t := range tokens {
		if t == nil {
			continue
		}
		doc[id] = recordFromToken(t)
	}
	return json.MarshalIndent(doc, "", "  ")
}

// decodeDocument parses a JSON object of records. Entries that are not valid
// records are skipped and their ids returned in invalid. A document that is
// not a JSON object is an error.
func decodeDocument(data []byte) (tokens map[string]*domain.Token, invalid []string, err error) {
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, nil, err
	}
	if doc == nil {
		return nil, nil, errors.New("token document is not an object")
	}

	tokens = make(map[string]*domain.Token, len(doc))
	for id, raw := range doc {
		t, err := decodeRecord(id, raw)
		if err != nil {
			invalid = append(invalid, id)
			continue
		}
		tokens[id] = t
	}
	return tokens, invalid, nil
}

// unixSeconds converts t to Unix seconds with microsecond precision.
func unixSeconds(t time.Time) float64 {
	return float64(t.UnixMicro()) / 1e6
}

func fromUnixSeconds(f float64) time.Time {
	sec, frac := math.Modf(f)
	micros := int64(math.Round(frac * 1e6))
	return time.Unix(int64(sec), micros*int64(time.Microsecond))
}
