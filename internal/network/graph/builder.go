// Package graph builds the funder/recipient/person relationship network and
// computes centrality, pathways and funder peer groups over it.
package graph

import (
	"cmp"
	"maps"
	"slices"
	"strings"

	"grantnet/internal/network/aggregate"
	"grantnet/internal/network/models"
)

const (
	funderPrefix    = "funder:"
	recipientPrefix = "recipient:"
	personPrefix    = "person:"
)

// FunderNodeID is the node id of a funder.
func FunderNodeID(funderID string) string {
	return funderPrefix + funderID
}

// RecipientNodeID is the node id of a recipient.
func RecipientNodeID(key models.RecipientKey) string {
	return recipientPrefix + key.String()
}

// PersonNodeID is the node id of a board member: the person id when known,
// otherwise the case-folded name.
func PersonNodeID(aff models.BoardAffiliation) string {
	if id := strings.TrimSpace(aff.PersonID); id != "" {
		return personPrefix + id
	}
	return personPrefix + strings.Join(strings.Fields(strings.ToLower(aff.PersonName)), " ")
}

type edgeKey struct {
	source string
	target string
}

// Builder accumulates nodes and edges. It is not safe for concurrent use.
type Builder struct {
	nodes map[string]models.NetworkNode
	edges map[edgeKey]*models.NetworkEdge
}

func NewBuilder() *Builder {
	return &Builder{
		nodes: make(map[string]models.NetworkNode),
		edges: make(map[edgeKey]*models.NetworkEdge),
	}
}

// AddFunding adds a node for every analyzed funder and recipient and one
// funds edge per funder/recipient pair. Edge weight is the cumulative amount
// and the year span covers every grant on the pair.
func (b *Builder) AddFunding(agg *aggregate.Result) {
	if agg == nil {
		return
	}
	for _, funderID := range agg.Funders {
		b.addNode(models.NetworkNode{ID: FunderNodeID(funderID), Kind: models.NodeFunder, Label: funderID})
	}
	for _, key := range agg.Keys() {
		recipient := agg.Recipients[key]
		attrs := map[string]string{"key": key.String()}
		if recipient.Geography != "" {
			attrs["geography"] = recipient.Geography
		}
		recipientID := RecipientNodeID(key)
		b.addNode(models.NetworkNode{
			ID:         recipientID,
			Kind:       models.NodeRecipient,
			Label:      recipient.DisplayName,
			Attributes: attrs,
		})
		for _, grant := range recipient.Grants {
			b.addEdge(FunderNodeID(grant.FunderID), recipientID, models.EdgeFunds, grant.Amount, grant.FiscalYear, grant.FiscalYear)
		}
	}
}

// AddRosters adds funds edges of weight 1 from each funder to every recipient
// on its roster. It rebuilds the funder projection of a finished analysis
// without the underlying grants.
func (b *Builder) AddRosters(rosters map[string][]models.RecipientKey) {
	for _, funderID := range slices.Sorted(maps.Keys(rosters)) {
		funderNode := FunderNodeID(funderID)
		b.addNode(models.NetworkNode{ID: funderNode, Kind: models.NodeFunder, Label: funderID})
		for _, key := range rosters[funderID] {
			recipientID := RecipientNodeID(key)
			if _, ok := b.nodes[recipientID]; !ok {
				b.addNode(models.NetworkNode{
					ID:         recipientID,
					Kind:       models.NodeRecipient,
					Label:      key.Value(),
					Attributes: map[string]string{"key": key.String()},
				})
			}
			b.addEdge(funderNode, recipientID, models.EdgeFunds, 1, 0, 0)
		}
	}
}

// AddAffiliations links board members to the organization node orgNodeID.
// Affiliations entirely outside [fromYear, toYear] are skipped; zero years are
// open-ended. The organization node must already exist.
func (b *Builder) AddAffiliations(orgNodeID string, affiliations []models.BoardAffiliation, fromYear, toYear int) {
	if _, ok := b.nodes[orgNodeID]; !ok {
		return
	}
	for _, aff := range affiliations {
		if aff.StartYear != 0 && toYear != 0 && aff.StartYear > toYear {
			continue
		}
		if aff.EndYear != 0 && fromYear != 0 && aff.EndYear < fromYear {
			continue
		}
		personID := PersonNodeID(aff)
		if personID == personPrefix {
			continue
		}
		if _, ok := b.nodes[personID]; !ok {
			label := aff.PersonName
			if label == "" {
				label = aff.PersonID
			}
			b.addNode(models.NetworkNode{ID: personID, Kind: models.NodePerson, Label: label})
		}
		b.addEdge(personID, orgNodeID, models.EdgeServesOn, 1, aff.StartYear, aff.EndYear)
	}
}

// Build freezes the accumulated nodes and edges into a Graph.
func (b *Builder) Build() *Graph {
	nodes := make([]models.NetworkNode, 0, len(b.nodes))
	for _, n := range b.nodes {
		nodes = append(nodes, n)
	}
	slices.SortFunc(nodes, func(x, y models.NetworkNode) int { return cmp.Compare(x.ID, y.ID) })

	edges := make([]models.NetworkEdge, 0, len(b.edges))
	for _, e := range b.edges {
		edges = append(edges, *e)
	}
	slices.SortFunc(edges, func(x, y models.NetworkEdge) int {
		return cmp.Or(cmp.Compare(x.Source, y.Source), cmp.Compare(x.Target, y.Target))
	})
	return newGraph(nodes, edges)
}

func (b *Builder) addNode(n models.NetworkNode) {
	if _, ok := b.nodes[n.ID]; ok {
		return
	}
	b.nodes[n.ID] = n
}

func (b *Builder) addEdge(source, target string, typ models.EdgeType, weight float64, fromYear, toYear int) {
	if source == target {
		return
	}
	if _, ok := b.nodes[source]; !ok {
		return
	}
	if _, ok := b.nodes[target]; !ok {
		return
	}
	key := edgeKey{source: source, target: target}
	e, ok := b.edges[key]
	if !ok {
		b.edges[key] = &models.NetworkEdge{
			Source:   source,
			Target:   target,
			Type:     typ,
			Weight:   weight,
			FromYear: fromYear,
			ToYear:   toYear,
		}
		return
	}
	e.Weight += weight
	e.FromYear = minYear(e.FromYear, fromYear)
	e.ToYear = max(e.ToYear, toYear)
}

// minYear treats zero as unknown.
func minYear(a, b int) int {
	switch {
	case a == 0:
		return b
	case b == 0:
		return a
	default:
		return min(a, b)
	}
}
