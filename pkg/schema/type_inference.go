package schema

import (
	"errors"
	"math"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/ajitpratap0/gzcsv/pkg/config"
	nerrors "github.com/ajitpratap0/gzcsv/pkg/errors"
	"github.com/ajitpratap0/gzcsv/pkg/models"
)

// TypeInferenceEngine turns raw cell text into typed values. It holds no
// per-row state and is safe for concurrent use.
type TypeInferenceEngine struct {
	logger      *zap.Logger
	identifiers map[string]struct{}
	rejectNaN   bool
}

// NewTypeInferenceEngine creates an engine from the inference settings.
// A nil logger disables logging.
func NewTypeInferenceEngine(cfg config.InferenceConfig, logger *zap.Logger) *TypeInferenceEngine {
	if logger == nil {
		logger = zap.NewNop()
	}

	ids := cfg.IdentifierColumns
	if ids == nil {
		ids = config.DefaultIdentifierColumns
	}
	identifiers := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		identifiers[id] = struct{}{}
	}

	return &TypeInferenceEngine{
		logger:      logger,
		identifiers: identifiers,
		rejectNaN:   cfg.NonFinite == config.NonFiniteReject,
	}
}

// IsIdentifier reports whether column is always emitted as a string
func (e *TypeInferenceEngine) IsIdentifier(column string) bool {
	_, ok := e.identifiers[column]
	return ok
}

// InferCell types one cell. Rules apply in order: the empty string stays a
// string, identifier columns stay strings, decimal numbers become numbers,
// null/true/false in any case become null and booleans, anything else is a
// string.
func (e *TypeInferenceEngine) InferCell(column, raw string) (models.Cell, error) {
	if raw == "" {
		return models.String(""), nil
	}
	if e.IsIdentifier(column) {
		return models.String(raw), nil
	}

	if f, ok := parseNumber(raw); ok {
		if math.IsNaN(f) || math.IsInf(f, 0) {
			if e.rejectNaN {
				return models.Cell{}, nerrors.Newf(nerrors.ErrorTypeNonFinite,
					"column %q has non-finite value %q", column, raw)
			}
			if ce := e.logger.Check(zap.DebugLevel, "non-finite number encoded as null"); ce != nil {
				ce.Write(zap.String("column", column), zap.String("value", raw))
			}
			return models.Null(), nil
		}
		return models.Number(f), nil
	}

	switch strings.ToLower(raw) {
	case "null":
		return models.Null(), nil
	case "true":
		return models.Bool(true), nil
	case "false":
		return models.Bool(false), nil
	}
	return models.String(raw), nil
}

// parseNumber accepts decimal floats with optional sign, fraction and
// exponent, plus signed or unsigned inf, infinity and nan in any case. Go's
// hexadecimal and underscore-separated forms are not numbers here. Magnitudes beyond the
// float64 range parse as infinities.
func parseNumber(raw string) (float64, bool) {
	if strings.ContainsAny(raw, "xX_") {
		return 0, false
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err == nil {
		return f, true
	}
	if errors.Is(err, strconv.ErrRange) {
		return f, true
	}
	// ParseFloat takes a sign on inf but not on nan
	if len(raw) == 4 && (raw[0] == '+' || raw[0] == '-') && strings.EqualFold(raw[1:], "nan") {
		return math.NaN(), true
	}
	return 0, false
}
