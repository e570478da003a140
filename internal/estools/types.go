package estools

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// flexInt unmarshals a JSON number whether Elasticsearch sent it as a
// native number or, as `_cat` endpoints commonly do, as a quoted string
// ("42"). Grounded on the same leniency the original gets for free from
// serde_aux::deserialize_number_from_string.
type flexInt int64

func (n *flexInt) UnmarshalJSON(data []byte) error {
	data = bytes.Trim(data, `"`)
	if len(data) == 0 || string(data) == "null" {
		*n = 0
		return nil
	}
	v, err := strconv.ParseInt(string(data), 10, 64)
	if err != nil {
		return err
	}
	*n = flexInt(v)
	return nil
}

func (n flexInt) Int() int { return int(n) }

// flexIntPtr is flexInt's optional counterpart, for fields `_cat/shards`
// may omit entirely (e.g. a relocating shard's doc count).
type flexIntPtr struct {
	val   flexInt
	valid bool
}

func (n *flexIntPtr) UnmarshalJSON(data []byte) error {
	trimmed := bytes.Trim(data, `"`)
	if len(trimmed) == 0 || string(trimmed) == "null" {
		n.valid = false
		return nil
	}
	if err := n.val.UnmarshalJSON(data); err != nil {
		return err
	}
	n.valid = true
	return nil
}

func (n flexIntPtr) IntOrNil() any {
	if !n.valid {
		return nil
	}
	return n.val.Int()
}

func (n flexIntPtr) MarshalJSON() ([]byte, error) {
	return json.Marshal(n.IntOrNil())
}

type catIndexRow struct {
	Index    string  `json:"index"`
	Status   string  `json:"status"`
	DocCount flexInt `json:"docs.count"`
}

type catShardRow struct {
	Index  string     `json:"index"`
	Shard  flexInt    `json:"shard"`
	Prirep string     `json:"prirep"`
	State  string     `json:"state"`
	Docs   flexIntPtr `json:"docs"`
	Store  string     `json:"store"`
	Node   string     `json:"node"`
}

type hit struct {
	Source json.RawMessage `json:"_source"`
}

type totalHits struct {
	Value int `json:"value"`
}

type hits struct {
	Total *totalHits `json:"total"`
	Hits  []hit      `json:"hits"`
}

type searchResponse struct {
	Hits         hits                       `json:"hits"`
	Aggregations map[string]json.RawMessage `json:"aggregations"`
}

type esqlColumn struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

type esqlResponse struct {
	Columns []esqlColumn    `json:"columns"`
	Values  [][]interface{} `json:"values"`
}
