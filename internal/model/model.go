package model

import "time"

// RootID is the reserved id of the single root node of every map.
const RootID = "root"

// NodeStyle controls how a node is visually distinguished on the canvas.
// StyleRect is the default and is never written by the outline codec.
type NodeStyle string

const (
	StyleRect      NodeStyle = "rect"
	StyleUnderline NodeStyle = "underline"
	StyleNone      NodeStyle = "none"
)

func ParseNodeStyle(s string) (NodeStyle, bool) {
	switch NodeStyle(s) {
	case StyleRect, StyleUnderline, StyleNone:
		return NodeStyle(s), true
	}
	return "", false
}

// LayoutMode selects how child positions are derived from tree shape.
type LayoutMode string

const (
	// LayoutBidirectional fans the root's children out to both sides of the root.
	LayoutBidirectional LayoutMode = "bidirectional"
	// LayoutLTR extends every node toward +x.
	LayoutLTR LayoutMode = "ltr"
	// LayoutRTL extends every node toward -x.
	LayoutRTL LayoutMode = "rtl"
)

func ParseLayoutMode(s string) (LayoutMode, bool) {
	switch LayoutMode(s) {
	case LayoutBidirectional, LayoutLTR, LayoutRTL:
		return LayoutMode(s), true
	}
	return "", false
}

// ConnectorStyle selects how parent->child connectors are drawn.
type ConnectorStyle string

const (
	ConnectorCurved   ConnectorStyle = "curved"
	ConnectorStraight ConnectorStyle = "straight"
)

func ParseConnectorStyle(s string) (ConnectorStyle, bool) {
	switch ConnectorStyle(s) {
	case ConnectorCurved, ConnectorStraight:
		return ConnectorStyle(s), true
	}
	return "", false
}

// Position is an absolute canvas coordinate. Positions are derived by the
// layout engine but may also be moved directly by interactive drags.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Node is one entry in a map's tree. ParentID is nil only for the root.
// ChildrenIDs order defines sibling order (and left/right placement under
// bidirectional layout).
type Node struct {
	ID          string    `json:"id"`
	Text        string    `json:"text"`
	ParentID    *string   `json:"parentId,omitempty"`
	ChildrenIDs []string  `json:"childrenIds"`
	Position    Position  `json:"position"`
	Collapsed   bool      `json:"collapsed,omitempty"`
	Style       NodeStyle `json:"style,omitempty"`
}

// MapRecord is the persisted form of one mind map. The tree itself is stored
// as outline text; connector style and layout mode ride along so a reopened
// map looks the way it was left.
type MapRecord struct {
	ID             string         `json:"id"`
	Name           string         `json:"name"`
	Outline        string         `json:"outline"`
	ConnectorStyle ConnectorStyle `json:"connectorStyle"`
	LayoutMode     LayoutMode     `json:"layoutMode"`
	CreatedAt      time.Time      `json:"createdAt"`
	ModifiedAt     time.Time      `json:"modifiedAt"`
}
