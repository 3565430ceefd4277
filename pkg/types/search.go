// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for paper-graph: papers,
// edges, candidates, chat messages, index records and configuration.
package types

import "time"

// SearchResult is a paper record returned by the academic index.
type SearchResult struct {
	// Identifier is the arXiv short id (version suffix kept when present).
	Identifier string `json:"identifier" yaml:"identifier"`

	// Title is the paper title as returned by the index.
	Title string `json:"title" yaml:"title"`

	// Authors lists the paper authors in source order.
	Authors []string `json:"authors" yaml:"authors"`

	// Abstract is the paper abstract or summary.
	Abstract string `json:"abstract" yaml:"abstract"`

	// Date is the preprint publication date.
	Date time.Time `json:"date" yaml:"date"`

	// PDFURL is the document URL advertised by the index.
	PDFURL string `json:"pdf_url" yaml:"pdf_url"`

	// Source identifies which index returned the record (e.g. "arxiv").
	Source string `json:"source" yaml:"source"`
}

// Candidate converts the record into a PaperCandidate with at most three
// authors.
func (r SearchResult) Candidate() PaperCandidate {
	authors := r.Authors
	if len(authors) > 3 {
		authors = authors[:3]
	}
	c := PaperCandidate{
		ArxivID: r.Identifier,
		Title:   r.Title,
		Authors: append([]string{}, authors...),
	}
	if !r.Date.IsZero() {
		c.Year = r.Date.Year()
	}
	return c
}
