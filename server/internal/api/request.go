package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"math"
)

var errNotObject = errors.New("request body must be a JSON object")

// decodeAnalytics parses a POST /analytics body.
//
// A non-nil error means the body is not a single JSON object (400).
// Otherwise a non-empty []FieldError lists schema problems (422).
func decodeAnalytics(body []byte) (AnalyticsRequest, []FieldError, error) {
	var req AnalyticsRequest

	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()

	var v interface{}
	if err := dec.Decode(&v); err != nil {
		if errors.Is(err, io.EOF) {
			return req, nil, errors.New("request body is empty")
		}
		return req, nil, err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return req, nil, errors.New("unexpected data after JSON object")
	}
	obj, ok := v.(map[string]interface{})
	if !ok {
		return req, nil, errNotObject
	}

	var errs []FieldError
	req.Regions, errs = regionsField(obj, errs)
	req.ThresholdMS, errs = thresholdField(obj, errs)
	return req, errs, nil
}

func regionsField(obj map[string]interface{}, errs []FieldError) ([]string, []FieldError) {
	raw, present := obj["regions"]
	if !present {
		return nil, append(errs, missing("regions"))
	}
	items, ok := raw.([]interface{})
	if !ok {
		return nil, append(errs, FieldError{
			Loc:  []interface{}{"body", "regions"},
			Msg:  "Input should be a valid list",
			Type: "list_type",
		})
	}

	regions := make([]string, 0, len(items))
	for i, item := range items {
		s, ok := item.(string)
		if !ok {
			errs = append(errs, FieldError{
				Loc:  []interface{}{"body", "regions", i},
				Msg:  "Input should be a valid string",
				Type: "string_type",
			})
			continue
		}
		regions = append(regions, s)
	}
	return regions, errs
}

func thresholdField(obj map[string]interface{}, errs []FieldError) (int, []FieldError) {
	raw, present := obj["threshold_ms"]
	if !present {
		return 0, append(errs, missing("threshold_ms"))
	}
	loc := []interface{}{"body", "threshold_ms"}

	n, ok := raw.(json.Number)
	if !ok {
		return 0, append(errs, FieldError{Loc: loc, Msg: "Input should be a valid integer", Type: "int_type"})
	}
	if i, err := n.Int64(); err == nil && i >= math.MinInt && i <= math.MaxInt {
		return int(i), errs
	}
	f, err := n.Float64()
	switch {
	case err != nil || f < math.MinInt || f >= -math.MinInt:
		return 0, append(errs, FieldError{Loc: loc, Msg: "Input should be a valid integer, unable to parse number as an integer", Type: "int_parsing"})
	case f != math.Trunc(f):
		return 0, append(errs, FieldError{Loc: loc, Msg: "Input should be a valid integer, got a number with a fractional part", Type: "int_from_float"})
	}
	return int(f), errs
}

func missing(field string) FieldError {
	return FieldError{Loc: []interface{}{"body", field}, Msg: "Field required", Type: "missing"}
}
