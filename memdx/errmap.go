package memdx

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"golang.org/x/exp/slices"
)

// Error map attributes which indicate the client may retry the operation.
const (
	ErrorAttrAutoRetry  = "auto-retry"
	ErrorAttrRetryNow   = "retry-now"
	ErrorAttrRetryLater = "retry-later"
	ErrorAttrItemLocked = "item-locked"
	ErrorAttrTemp       = "temp"
)

// Retry strategies understood in an error map retry specification.
const (
	RetryStrategyConstant    = "constant"
	RetryStrategyLinear      = "linear"
	RetryStrategyExponential = "exponential"
)

// ErrorMapRetrySpec describes the server-suggested backoff for an error.  All
// durations are expressed in milliseconds on the wire.
type ErrorMapRetrySpec struct {
	Strategy    string `json:"strategy"`
	Interval    int    `json:"interval"`
	After       int    `json:"after"`
	Ceil        int    `json:"ceil"`
	MaxDuration int    `json:"max-duration"`
}

// ErrorCode describes a single status code as published in the error map.
type ErrorCode struct {
	Code  Status             `json:"-"`
	Name  string             `json:"name"`
	Desc  string             `json:"desc"`
	Attrs []string           `json:"attrs"`
	Retry *ErrorMapRetrySpec `json:"retry,omitempty"`
}

func (e *ErrorCode) String() string {
	return fmt.Sprintf("KV Error: {Name=\"%s\", Description=\"%s\", Attributes=\"%s\"}",
		e.Name, e.Desc, strings.Join(e.Attrs, ","))
}

func (e *ErrorCode) HasAttribute(attr string) bool {
	return slices.Contains(e.Attrs, attr)
}

// IsRetryable reports whether the error map marks this code as one which the
// client may retry.
func (e *ErrorCode) IsRetryable() bool {
	return e.HasAttribute(ErrorAttrAutoRetry) ||
		e.HasAttribute(ErrorAttrRetryNow) ||
		e.HasAttribute(ErrorAttrRetryLater)
}

// MaxDuration returns the maximum amount of time the server suggests retrying
// for, or zero when no limit is published.
func (e *ErrorCode) MaxDuration() time.Duration {
	if e.Retry == nil || e.Retry.MaxDuration <= 0 {
		return 0
	}
	return time.Duration(e.Retry.MaxDuration) * time.Millisecond
}

// NextInterval computes how long to wait before retrying for the given
// attempt number.  When the error carries no retry specification the
// provided default is returned.
func (e *ErrorCode) NextInterval(attempts uint32, defaultInterval time.Duration) time.Duration {
	spec := e.Retry
	if spec == nil {
		return defaultInterval
	}

	if attempts == 0 {
		return time.Duration(spec.After) * time.Millisecond
	}

	var intervalMs float64
	switch spec.Strategy {
	case RetryStrategyConstant:
		intervalMs = float64(spec.Interval)
	case RetryStrategyLinear:
		intervalMs = float64(spec.Interval) * float64(attempts)
	case RetryStrategyExponential:
		intervalMs = math.Pow(float64(spec.Interval), float64(attempts))
	default:
		return defaultInterval
	}

	if spec.Ceil > 0 && intervalMs > float64(spec.Ceil) {
		intervalMs = float64(spec.Ceil)
	}

	return time.Duration(intervalMs) * time.Millisecond
}

// ErrorMap is the server-published table describing status codes which are
// not part of the core protocol.  It is fetched once per connection using the
// GetErrorMap operation and is read-only afterwards.
type ErrorMap struct {
	Version  int
	Revision int
	Errors   map[string]*ErrorCode
}

// ParseErrorMap parses the JSON body of a GetErrorMap response.
func ParseErrorMap(data []byte) (*ErrorMap, error) {
	parsedJson := struct {
		Version  int                   `json:"version"`
		Revision int                   `json:"revision"`
		Errors   map[string]*ErrorCode `json:"errors"`
	}{}

	err := json.Unmarshal(data, &parsedJson)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidErrorMap, err)
	}

	if parsedJson.Version == 0 {
		return nil, fmt.Errorf("%w: missing version", ErrInvalidErrorMap)
	}

	errs := make(map[string]*ErrorCode, len(parsedJson.Errors))
	for codeStr, code := range parsedJson.Errors {
		if code == nil {
			continue
		}

		codeVal, err := strconv.ParseUint(codeStr, 16, 16)
		if err != nil {
			return nil, fmt.Errorf("%w: bad status code %q", ErrInvalidErrorMap, codeStr)
		}

		code.Code = Status(codeVal)
		errs[errorMapKey(code.Code)] = code
	}

	return &ErrorMap{
		Version:  parsedJson.Version,
		Revision: parsedJson.Revision,
		Errors:   errs,
	}, nil
}

func errorMapKey(status Status) string {
	return strconv.FormatUint(uint64(status), 16)
}

// Lookup finds the error code for a status.  It is safe to call on a nil map.
func (m *ErrorMap) Lookup(status Status) (*ErrorCode, bool) {
	if m == nil {
		return nil, false
	}

	code, ok := m.Errors[errorMapKey(status)]
	return code, ok
}
