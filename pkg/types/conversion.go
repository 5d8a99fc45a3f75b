// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// ConversionStatus indicates the outcome of converting one input file.
type ConversionStatus string

const (
	ConversionDone    ConversionStatus = "converted"
	ConversionSkipped ConversionStatus = "skipped"
	ConversionFailed  ConversionStatus = "failed"
)

// ConversionRecord describes a completed conversion as stored in the manifest.
type ConversionRecord struct {
	// ID is a random UUID assigned when the record is written.
	ID string `json:"id" yaml:"id"`

	// InputPath is the absolute path of the source outline.
	InputPath string `json:"input_path" yaml:"input_path"`

	// OutputPath is the absolute path of the written OPML file.
	OutputPath string `json:"output_path" yaml:"output_path"`

	// InputSHA256 is the hex digest of the input bytes at conversion time.
	InputSHA256 string `json:"input_sha256" yaml:"input_sha256"`

	// SettingsSHA256 fingerprints the parser and output settings that
	// shaped the written file.
	SettingsSHA256 string `json:"settings_sha256" yaml:"settings_sha256"`

	// Title is the document title from the TITLE keyword, if any.
	Title string `json:"title" yaml:"title"`

	// NodeCount is the number of headlines in the converted outline.
	NodeCount int `json:"node_count" yaml:"node_count"`

	ConvertedAt time.Time `json:"converted_at" yaml:"converted_at"`
}
