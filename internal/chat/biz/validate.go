package biz

import (
	"bytes"
	"math"
	"strconv"
	"unicode/utf8"

	"github.com/lk2023060901/chat-backend/internal/chat/types"
	"github.com/tidwall/gjson"
)

// Validate checks a raw POST /chat body against the ChatRequest schema and
// returns the decoded request. Every violation is reported in a single
// *ValidationError so callers can answer with the full list at once.
//
// Unknown fields are ignored. An explicit null on an optional field means unset.
// When a key is repeated the last occurrence wins.
func Validate(raw []byte) (*types.ChatRequest, error) {
	verr := &ValidationError{}

	if len(bytes.TrimSpace(raw)) == 0 {
		verr.add(ErrTypeMissing, "Field required")
		return nil, verr
	}
	if !utf8.Valid(raw) || !gjson.ValidBytes(raw) {
		verr.add(ErrTypeJSONInvalid, "JSON decode error")
		return nil, verr
	}

	body := gjson.ParseBytes(raw)
	if !body.IsObject() {
		verr.add(ErrTypeNotObject, "Input should be a valid dictionary or object to extract fields from")
		return nil, verr
	}

	var message, model, maxTokens, temperature gjson.Result
	body.ForEach(func(key, value gjson.Result) bool {
		switch key.String() {
		case "message":
			message = value
		case "model":
			model = value
		case "max_tokens":
			maxTokens = value
		case "temperature":
			temperature = value
		}
		return true
	})

	req := &types.ChatRequest{}

	switch {
	case !message.Exists():
		verr.add(ErrTypeMissing, "Field required", "message")
	case message.Type != gjson.String:
		verr.add(ErrTypeString, "Input should be a valid string", "message")
	default:
		req.Message = message.String()
	}

	if isSet(model) {
		if model.Type != gjson.String {
			verr.add(ErrTypeString, "Input should be a valid string", "model")
		} else {
			s := model.String()
			req.Model = &s
		}
	}

	if isSet(maxTokens) {
		if n, ok := intValue(maxTokens); ok {
			req.MaxTokens = &n
		} else {
			verr.add(ErrTypeInt, "Input should be a valid integer", "max_tokens")
		}
	}

	if isSet(temperature) {
		if temperature.Type != gjson.Number {
			verr.add(ErrTypeFloat, "Input should be a valid number", "temperature")
		} else {
			f := temperature.Float()
			req.Temperature = &f
		}
	}

	if len(verr.Fields) > 0 {
		return nil, verr
	}
	return req, nil
}

func isSet(r gjson.Result) bool {
	return r.Exists() && r.Type != gjson.Null
}

// intValue accepts integral JSON numbers, including forms like 5.0 or 1e3.
func intValue(r gjson.Result) (int, bool) {
	if r.Type != gjson.Number {
		return 0, false
	}
	if n, err := strconv.ParseInt(r.Raw, 10, strconv.IntSize); err == nil {
		return int(n), true
	}

	f := r.Num
	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return 0, false
	}
	if f < float64(math.MinInt) || f >= float64(math.MaxInt) {
		return 0, false
	}
	return int(f), true
}
