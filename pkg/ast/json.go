package ast

import "encoding/json"

// Each node encodes with a "type" discriminator so the closed node set
// survives the trip to JSON.

func (n *Number) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type   string  `json:"type"`
		Value  float64 `json:"value"`
		Offset int     `json:"offset"`
	}{"number", n.Value, n.Pos.Offset})
}

func (n *Cell) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type   string `json:"type"`
		Name   string `json:"name"`
		Offset int    `json:"offset"`
	}{"cell", n.Name, n.Pos.Offset})
}

func (n *Range) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type   string `json:"type"`
		Value  string `json:"value"`
		Offset int    `json:"offset"`
	}{"range", n.Value, n.Pos.Offset})
}

func (n *BinaryOp) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type   string `json:"type"`
		Op     string `json:"op"`
		Left   Node   `json:"left"`
		Right  Node   `json:"right"`
		Offset int    `json:"offset"`
	}{"binary", n.Op.String(), n.Left, n.Right, n.Pos.Offset})
}

func (n *FunctionCall) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type   string `json:"type"`
		Name   string `json:"name"`
		Args   []Node `json:"args"`
		Offset int    `json:"offset"`
	}{"function", n.Name, n.Args, n.Pos.Offset})
}
