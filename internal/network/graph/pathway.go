package graph

import "grantnet/internal/network/models"

// MaxPaths caps how many equally short paths a pathway query returns.
const MaxPaths = 10

// Pathway returns every shortest path between source and target, up to
// MaxPaths, in lexicographic order of node ids. Unknown endpoints, no
// connection, or a shortest path longer than maxHops produce an empty
// result rather than an error. maxHops <= 0 means models.DefaultMaxHops.
func (g *Graph) Pathway(source, target string, maxHops int) models.Pathway {
	if maxHops <= 0 {
		maxHops = models.DefaultMaxHops
	}
	result := models.Pathway{Source: source, Target: target, MaxHops: maxHops, Paths: []models.Path{}}

	src, ok := g.Resolve(source)
	if !ok {
		return result
	}
	dst, ok := g.Resolve(target)
	if !ok {
		return result
	}
	result.Source, result.Target = src, dst

	if src == dst {
		result.Paths = append(result.Paths, models.Path{Nodes: []string{src}, EdgeTypes: []models.EdgeType{}})
		return result
	}

	fromSrc := g.distances(src, maxHops)
	length, reachable := fromSrc[dst]
	if !reachable {
		return result
	}
	toDst := g.distances(dst, length)

	// Walk forward from src through neighbors that stay on some shortest
	// path; sorted adjacency gives lexicographic path order.
	nodes := []string{src}
	var walk func(current string)
	walk = func(current string) {
		if len(result.Paths) >= MaxPaths {
			return
		}
		if current == dst {
			result.Paths = append(result.Paths, g.toPath(nodes))
			return
		}
		step := fromSrc[current] + 1
		for _, next := range g.neighbors[current] {
			d, ok := fromSrc[next]
			if !ok || d != step {
				continue
			}
			rest, ok := toDst[next]
			if !ok || step+rest != length {
				continue
			}
			nodes = append(nodes, next)
			walk(next)
			nodes = nodes[:len(nodes)-1]
		}
	}
	walk(src)
	return result
}

// distances is a breadth-first search from start bounded by limit hops.
func (g *Graph) distances(start string, limit int) map[string]int {
	dist := map[string]int{start: 0}
	queue := []string{start}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		if dist[current] >= limit {
			continue
		}
		for _, next := range g.neighbors[current] {
			if _, seen := dist[next]; seen {
				continue
			}
			dist[next] = dist[current] + 1
			queue = append(queue, next)
		}
	}
	return dist
}

func (g *Graph) toPath(nodes []string) models.Path {
	p := models.Path{
		Nodes:     append([]string(nil), nodes...),
		EdgeTypes: make([]models.EdgeType, 0, len(nodes)-1),
	}
	for i := 0; i+1 < len(nodes); i++ {
		p.EdgeTypes = append(p.EdgeTypes, g.edgeType[edgeKey{nodes[i], nodes[i+1]}])
	}
	return p
}
