package graph

import (
	"cmp"
	"fmt"
	"maps"
	"slices"
	"strings"

	gonumgraph "gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/community"
	"gonum.org/v1/gonum/graph/simple"

	"grantnet/internal/network/models"
)

const (
	resolution  = 1.0
	maxPasses   = 100
	gainEpsilon = 1e-12
)

// PeerGroups projects funders onto a funder-funder graph weighted by the
// number of recipients they share and partitions it with multi-level Louvain
// modularity optimization. Nodes are visited in ascending id order and a node
// moves only on a strict gain, preferring the lowest community id on ties, so
// the partition is deterministic. The returned modularity is for that
// partition; it is 0 when no funders share a recipient.
func (g *Graph) PeerGroups() ([]models.PeerGroup, float64) {
	funders := g.FunderIDs()
	if len(funders) == 0 {
		return []models.PeerGroup{}, 0
	}
	idx := make(map[string]int, len(funders))
	for i, f := range funders {
		idx[FunderNodeID(f)] = i
	}

	base := newLevel(len(funders))
	for _, n := range g.nodes {
		if n.Kind != models.NodeRecipient {
			continue
		}
		var backers []int
		for _, nb := range g.neighbors[n.ID] {
			if i, ok := idx[nb]; ok {
				backers = append(backers, i)
			}
		}
		for a := range backers {
			for b := a + 1; b < len(backers); b++ {
				base.link(backers[a], backers[b], 1)
			}
		}
	}

	partition := louvain(base)

	groups := make([]models.PeerGroup, 0, len(partition))
	for n, members := range partition {
		ids := make([]string, 0, len(members))
		for _, m := range members {
			ids = append(ids, funders[m])
		}
		groups = append(groups, models.PeerGroup{ID: fmt.Sprintf("peer-group-%d", n+1), Funders: ids})
	}
	return groups, finite(modularity(base, partition))
}

// PeerGroupOf returns the group containing funderID.
func PeerGroupOf(groups []models.PeerGroup, funderID string) (models.PeerGroup, bool) {
	funderID = strings.TrimPrefix(funderID, funderPrefix)
	for _, pg := range groups {
		if slices.Contains(pg.Funders, funderID) {
			return pg, true
		}
	}
	return models.PeerGroup{}, false
}

type level struct {
	n    int
	adj  []map[int]float64
	self []float64
}

func newLevel(n int) *level {
	l := &level{n: n, adj: make([]map[int]float64, n), self: make([]float64, n)}
	for i := range l.adj {
		l.adj[i] = make(map[int]float64)
	}
	return l
}

func (l *level) link(i, j int, w float64) {
	if i == j {
		l.self[i] += w
		return
	}
	l.adj[i][j] += w
	l.adj[j][i] += w
}

// louvain returns communities as sorted lists of base node indices, ordered
// by their lowest member.
func louvain(base *level) [][]int {
	members := make([][]int, base.n)
	for i := range members {
		members[i] = []int{i}
	}
	current := base
	for {
		comm, moved := localMoving(current)
		if !moved {
			break
		}
		current, members = collapse(current, comm, members)
	}
	return members
}

func localMoving(l *level) ([]int, bool) {
	comm := make([]int, l.n)
	strength := make([]float64, l.n)
	var m2 float64
	for i := range l.n {
		comm[i] = i
		strength[i] = 2 * l.self[i]
		for _, w := range l.adj[i] {
			strength[i] += w
		}
		m2 += strength[i]
	}
	if m2 == 0 {
		return comm, false
	}
	total := slices.Clone(strength)

	moved := false
	for range maxPasses {
		changed := false
		for i := range l.n {
			home := comm[i]
			total[home] -= strength[i]

			links := map[int]float64{home: 0}
			for j, w := range l.adj[i] {
				links[comm[j]] += w
			}
			gain := func(c int) float64 {
				return links[c] - resolution*total[c]*strength[i]/m2
			}

			best, bestGain := home, gain(home)
			for _, c := range slices.Sorted(maps.Keys(links)) {
				if g := gain(c); g > bestGain+gainEpsilon {
					best, bestGain = c, g
				}
			}

			total[best] += strength[i]
			if best != home {
				comm[i] = best
				changed = true
				moved = true
			}
		}
		if !changed {
			break
		}
	}
	return comm, moved
}

// collapse turns each community into a single node of the next level.
func collapse(l *level, comm []int, members [][]int) (*level, [][]int) {
	grouped := make(map[int][]int)
	for i, c := range comm {
		grouped[c] = append(grouped[c], i)
	}

	nextMembers := make([][]int, 0, len(grouped))
	seedOf := make([]int, 0, len(grouped))
	for c, nodes := range grouped {
		var merged []int
		for _, i := range nodes {
			merged = append(merged, members[i]...)
		}
		slices.Sort(merged)
		nextMembers = append(nextMembers, merged)
		seedOf = append(seedOf, c)
	}
	order := make([]int, len(nextMembers))
	for i := range order {
		order[i] = i
	}
	slices.SortFunc(order, func(a, b int) int { return cmp.Compare(nextMembers[a][0], nextMembers[b][0]) })

	newIndex := make(map[int]int, len(order))
	sortedMembers := make([][]int, len(order))
	for pos, o := range order {
		newIndex[seedOf[o]] = pos
		sortedMembers[pos] = nextMembers[o]
	}

	next := newLevel(len(order))
	for i := range l.n {
		a := newIndex[comm[i]]
		next.self[a] += l.self[i]
		for j, w := range l.adj[i] {
			b := newIndex[comm[j]]
			if a == b {
				// Internal edges are seen from both ends.
				next.self[a] += w / 2
				continue
			}
			next.adj[a][b] += w
		}
	}
	return next, sortedMembers
}

func modularity(base *level, partition [][]int) float64 {
	wg := simple.NewWeightedUndirectedGraph(0, 0)
	for i := range base.n {
		wg.AddNode(simple.Node(i))
	}
	edges := 0
	for i := range base.n {
		for j, w := range base.adj[i] {
			if i < j {
				wg.SetWeightedEdge(simple.WeightedEdge{F: simple.Node(i), T: simple.Node(j), W: w})
				edges++
			}
		}
	}
	if edges == 0 {
		return 0
	}
	communities := make([][]gonumgraph.Node, 0, len(partition))
	for _, members := range partition {
		nodes := make([]gonumgraph.Node, 0, len(members))
		for _, m := range members {
			nodes = append(nodes, simple.Node(m))
		}
		communities = append(communities, nodes)
	}
	return community.Q(wg, communities, resolution)
}
