package store

import (
	"encoding/base64"
	"encoding/json"
	"fmt"

	appErrors "github.com/minkhant-dev/piecerate-api/pkg/errors"
)

// cursor is the decoded continuation token: the sort-key value and id of
// the last record on the previous page. The id breaks ties between
// records sharing a sort-key value.
type cursor struct {
	Key any    `json:"k"`
	ID  string `json:"id"`
}

func encodeCursor(c cursor) string {
	raw, err := json.Marshal(c)
	if err != nil {
		return ""
	}
	return base64.RawURLEncoding.EncodeToString(raw)
}

func decodeCursor(token string) (*cursor, error) {
	if token == "" {
		return nil, nil
	}
	raw, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "malformed page cursor")
	}
	var c cursor
	if err := json.Unmarshal(raw, &c); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "malformed page cursor")
	}
	return &c, nil
}

// compareSortValues orders two sort-key values. Numbers compare
// numerically, everything else by string form. Returns -1, 0 or 1.
func compareSortValues(a, b any) int {
	af, aok := asFloat(a)
	bf, bok := asFloat(b)
	if aok && bok {
		switch {
		case af < bf:
			return -1
		case af > bf:
			return 1
		default:
			return 0
		}
	}
	as := fmt.Sprintf("%v", a)
	bs := fmt.Sprintf("%v", b)
	switch {
	case as < bs:
		return -1
	case as > bs:
		return 1
	default:
		return 0
	}
}

func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}
