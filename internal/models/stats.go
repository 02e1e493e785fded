package model

type Stats struct {
	Total     int `json:"total"`
	New       int `json:"new"`
	Active    int `json:"active"`
	Completed int `json:"completed"`
	Failed    int `json:"failed"`
}
