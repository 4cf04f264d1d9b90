package models

// NodeKind is the type of a relationship graph node.
type NodeKind string

const (
	NodeFunder    NodeKind = "funder"
	NodeRecipient NodeKind = "recipient"
	NodePerson    NodeKind = "person"
)

// EdgeType is the relationship an edge represents.
type EdgeType string

const (
	EdgeFunds    EdgeType = "funds"
	EdgeServesOn EdgeType = "serves-on-board-of"
)

// NetworkNode is one funder, recipient or person in the relationship graph.
type NetworkNode struct {
	ID         string            `json:"id"`
	Kind       NodeKind          `json:"kind"`
	Label      string            `json:"label"`
	Attributes map[string]string `json:"attributes,omitempty"`
}

// NetworkEdge connects two nodes. Weight is the cumulative amount for funds
// edges and the affiliation count for board edges.
type NetworkEdge struct {
	Source   string   `json:"source"`
	Target   string   `json:"target"`
	Type     EdgeType `json:"type"`
	Weight   float64  `json:"weight"`
	FromYear int      `json:"from_year,omitempty"`
	ToYear   int      `json:"to_year,omitempty"`
}

// NodeMetrics holds centrality scores for one node. Betweenness and
// Closeness are only populated when requested.
type NodeMetrics struct {
	NodeID      string   `json:"node_id"`
	Kind        NodeKind `json:"kind"`
	Degree      int      `json:"degree"`
	Betweenness float64  `json:"betweenness,omitempty"`
	Closeness   float64  `json:"closeness,omitempty"`
}

// Path is one connecting route between two nodes. EdgeTypes[i] is the type of
// the edge between Nodes[i] and Nodes[i+1].
type Path struct {
	Nodes     []string   `json:"nodes"`
	EdgeTypes []EdgeType `json:"edge_types"`
}

// Hops is the number of edges on the path.
func (p Path) Hops() int {
	return len(p.EdgeTypes)
}

// Pathway is the answer to a pathway query. An empty Paths slice means no
// connection within MaxHops.
type Pathway struct {
	Source  string `json:"source"`
	Target  string `json:"target"`
	MaxHops int    `json:"max_hops"`
	Paths   []Path `json:"paths"`
}

// Found reports whether at least one path was found.
func (p *Pathway) Found() bool {
	return p != nil && len(p.Paths) > 0
}

// PeerGroup is a community of funders with similar giving patterns.
type PeerGroup struct {
	ID      string   `json:"id"`
	Funders []string `json:"funders"`
}

// Recommendation suggests a peer funder and the recipients it funds that the
// target funder does not.
type Recommendation struct {
	TargetFunder        string         `json:"target_funder"`
	PeerFunder          string         `json:"peer_funder"`
	PeerGroup           string         `json:"peer_group"`
	Similarity          float64        `json:"similarity"`
	CandidateRecipients []RecipientKey `json:"candidate_recipients"`
}
