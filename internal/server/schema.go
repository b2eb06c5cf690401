package server

import (
	"errors"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// markerSchema is the shape the viewer writes. Fields are optional since the
// viewer loads missing ones as zero values, but present fields must have the
// right type.
const markerSchema = `{
	"type": "array",
	"items": {
		"type": "object",
		"properties": {
			"title":       {"type": "string"},
			"description": {"type": "string"},
			"x":           {"type": "number"},
			"y":           {"type": "number"}
		}
	}
}`

var markerSchemaLoader = gojsonschema.NewStringLoader(markerSchema)

// ErrSchema is returned when a marker listing does not match markerSchema.
var ErrSchema = errors.New("marker listing does not match schema")

// validateMarkers checks listing against markerSchema.
func validateMarkers(listing []byte) error {
	result, err := gojsonschema.Validate(markerSchemaLoader, gojsonschema.NewBytesLoader(listing))
	if err != nil {
		return fmt.Errorf("validate markers: %w", err)
	}
	if result.Valid() {
		return nil
	}
	msgs := make([]string, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		msgs = append(msgs, fmt.Sprintf("%s: %s", desc.Field(), desc.Description()))
	}
	return fmt.Errorf("%w: %s", ErrSchema, strings.Join(msgs, "; "))
}
