// Microservices AI Platform - Intelligent Data Processing and Predictions
// Copyright 2026 Shibam (shibam-max)
// SPDX-License-Identifier: MIT
// https://github.com/shibam-max/microservices-ai-platform

package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Param is a single named input to a cacheable operation.
type Param struct {
	Key   string
	Value any
}

// Fingerprint derives a deterministic cache key from an operation name and
// its parameters. Params are canonicalized (sorted, stable numeric
// formatting) before hashing, so identical logical inputs produce identical
// keys regardless of construction order. Each key and value is
// length-prefixed, so no param content can masquerade as a component
// boundary: distinct param sets always hash distinct byte streams.
func Fingerprint(operation string, params []Param) string {
	canonical := make([]string, len(params))
	for i, p := range params {
		v := canonicalValue(p.Value)
		canonical[i] = strconv.Itoa(len(p.Key)) + ":" + p.Key + strconv.Itoa(len(v)) + ":" + v
	}
	sort.Strings(canonical)

	h := sha256.New()
	for _, c := range canonical {
		h.Write([]byte(c))
	}
	return operation + ":" + hex.EncodeToString(h.Sum(nil))
}

// canonicalValue renders a parameter value in a stable textual form.
// Floats use the shortest representation that round-trips, so 1.0 and 1
// collapse to the same key component.
func canonicalValue(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'g', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(val), 'g', -1, 64)
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case bool:
		return strconv.FormatBool(val)
	case []float64:
		parts := make([]string, len(val))
		for i, f := range val {
			parts[i] = strconv.FormatFloat(f, 'g', -1, 64)
		}
		return "[" + strings.Join(parts, ",") + "]"
	case nil:
		return ""
	default:
		return fmt.Sprintf("%v", val)
	}
}

// PredictionKey builds the cache key for a prediction request:
// prediction:{model}:{inputHash}. The hash covers the feature vector only;
// caller identity never affects prediction cache keys.
func PredictionKey(model string, features []float64) string {
	return Fingerprint("prediction:"+model, []Param{
		{Key: "features", Value: features},
	})
}

// RecommendationKey builds the cache key for a recommendation request:
// recommendations:{userId}:{itemType}:{n}.
func RecommendationKey(userID, itemType string, n int) string {
	return "recommendations:" + userID + ":" + itemType + ":" + strconv.Itoa(n)
}
