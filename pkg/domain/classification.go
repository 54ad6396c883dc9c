package domain

import (
	"errors"
)

var (
	ErrEmptyText         = errors.New("empty text")
	ErrEmptyBatch        = errors.New("no texts provided")
	ErrBatchTooLarge     = errors.New("batch too large")
	ErrModelNotReady     = errors.New("model not loaded")
	ErrInvalidBundle     = errors.New("invalid model bundle: expected vectorizer and classifier")
	ErrUnsupportedFormat = errors.New("unsupported file type")
	ErrMissingTextColumn = errors.New("input must contain a 'text' column")
	ErrDecode            = errors.New("could not decode file content")
)

type Label string

const (
	Label_Spam Label = "spam"
	Label_Ham  Label = "ham"
)

// ScoredItem is the result of classifying a single message. ProbaSpam is
// nil when the loaded classifier cannot produce calibrated probabilities.
type ScoredItem struct {
	Text      string   `json:"text"`
	Pred      string   `json:"pred"`
	ProbaSpam *float64 `json:"proba_spam"`
}

// FileFormat identifies how an uploaded file is decoded into messages.
type FileFormat string

const (
	FileFormat_Delimited   FileFormat = "delimited-text"
	FileFormat_Spreadsheet FileFormat = "spreadsheet"
	FileFormat_LineText    FileFormat = "line-text"
)
