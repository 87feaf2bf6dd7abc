// Package model defines the JSON types of the HTTP surface.
package model

type Entry struct {
	Key   int64  `json:"key"`
	Value string `json:"value"`
}

type PutRequest struct {
	Value string `json:"value"`
}

type GetResponse struct {
	Key   int64  `json:"key"`
	Value string `json:"value"`
	Found bool   `json:"found"`
}

type RangeResponse struct {
	Lo      int64   `json:"lo"`
	Hi      int64   `json:"hi"`
	Count   int     `json:"count"`
	Entries []Entry `json:"entries"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
