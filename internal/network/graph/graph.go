package graph

import (
	"math"
	"slices"
	"strings"

	"gonum.org/v1/gonum/graph/network"
	"gonum.org/v1/gonum/graph/path"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"

	"grantnet/internal/network/models"
)

// Graph is an immutable undirected relationship network. String node ids are
// mapped to gonum int64 ids in ascending order, so ordering by either id
// agrees.
type Graph struct {
	nodes     []models.NetworkNode
	edges     []models.NetworkEdge
	index     map[string]int64
	neighbors map[string][]string
	edgeType  map[edgeKey]models.EdgeType
	topology  *simple.UndirectedGraph
}

func newGraph(nodes []models.NetworkNode, edges []models.NetworkEdge) *Graph {
	g := &Graph{
		nodes:     nodes,
		edges:     edges,
		index:     make(map[string]int64, len(nodes)),
		neighbors: make(map[string][]string, len(nodes)),
		edgeType:  make(map[edgeKey]models.EdgeType, 2*len(edges)),
		topology:  simple.NewUndirectedGraph(),
	}
	for i, n := range nodes {
		g.index[n.ID] = int64(i)
		g.topology.AddNode(simple.Node(i))
	}
	for _, e := range edges {
		g.neighbors[e.Source] = append(g.neighbors[e.Source], e.Target)
		g.neighbors[e.Target] = append(g.neighbors[e.Target], e.Source)
		g.edgeType[edgeKey{e.Source, e.Target}] = e.Type
		g.edgeType[edgeKey{e.Target, e.Source}] = e.Type
		g.topology.SetEdge(simple.Edge{F: simple.Node(g.index[e.Source]), T: simple.Node(g.index[e.Target])})
	}
	for id := range g.neighbors {
		slices.Sort(g.neighbors[id])
	}
	return g
}

// Nodes returns every node sorted by id.
func (g *Graph) Nodes() []models.NetworkNode {
	return g.nodes
}

// Edges returns every edge sorted by source then target.
func (g *Graph) Edges() []models.NetworkEdge {
	return g.edges
}

// Has reports whether id is a node in the graph.
func (g *Graph) Has(id string) bool {
	_, ok := g.index[id]
	return ok
}

// Resolve maps a node id, or a bare funder id, to a node id in the graph.
func (g *Graph) Resolve(id string) (string, bool) {
	id = strings.TrimSpace(id)
	if g.Has(id) {
		return id, true
	}
	if funder := FunderNodeID(id); g.Has(funder) {
		return funder, true
	}
	return "", false
}

// Degree is the number of edges incident to id.
func (g *Graph) Degree(id string) int {
	return len(g.neighbors[id])
}

// FunderIDs returns the funder ids of every funder node, ascending.
func (g *Graph) FunderIDs() []string {
	var ids []string
	for _, n := range g.nodes {
		if n.Kind == models.NodeFunder {
			ids = append(ids, strings.TrimPrefix(n.ID, funderPrefix))
		}
	}
	return ids
}

// Metrics returns degree centrality for every node and, when withCentrality
// is set, betweenness and closeness. Betweenness counts each unordered pair
// of endpoints once. Closeness uses the Wasserman-Faust form
// r²/((n-1)·Σd), where r is the number of nodes reachable from the node, n
// the graph size and Σd the summed distance to them. Nodes in small
// components therefore score below well-connected hubs, and isolated nodes
// score 0.
func (g *Graph) Metrics(withCentrality bool) []models.NodeMetrics {
	var betweenness, closeness map[int64]float64
	if withCentrality && len(g.nodes) > 0 {
		betweenness = network.Betweenness(g.topology)
		closeness = g.closeness()
	}

	out := make([]models.NodeMetrics, 0, len(g.nodes))
	for _, n := range g.nodes {
		m := models.NodeMetrics{
			NodeID: n.ID,
			Kind:   n.Kind,
			Degree: g.Degree(n.ID),
		}
		if withCentrality {
			id := g.index[n.ID]
			m.Betweenness = finite(betweenness[id] / 2)
			m.Closeness = closeness[id]
		}
		out = append(out, m)
	}
	return out
}

func (g *Graph) closeness() map[int64]float64 {
	out := make(map[int64]float64, len(g.nodes))
	others := float64(len(g.nodes) - 1)
	if others == 0 {
		return out
	}
	// network.Closeness is 1/Σd over the reachable nodes only.
	raw := network.Closeness(g.topology, path.DijkstraAllPaths(g.topology))
	for _, component := range topo.ConnectedComponents(g.topology) {
		reachable := float64(len(component) - 1)
		for _, n := range component {
			if reachable == 0 {
				continue
			}
			out[n.ID()] = finite(raw[n.ID()] * reachable * reachable / others)
		}
	}
	return out
}

func finite(v float64) float64 {
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return 0
	}
	return v
}
