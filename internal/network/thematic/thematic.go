// Package thematic groups bundled recipients by the vocabulary of their grant
// purposes.
//
// Clustering is a greedy single pass: recipients are visited in funding
// order and each joins the first cluster whose keyword signature overlaps its
// own keywords above the threshold, otherwise it seeds a new cluster. The
// partition is a heuristic, not an optimal clustering.
package thematic

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
	"unicode"

	"github.com/blevesearch/bleve/v2/analysis"
	"github.com/blevesearch/bleve/v2/registry"

	// Registers the standard analyzer: unicode tokenizer, lowercase, English stop words.
	_ "github.com/blevesearch/bleve/v2/analysis/analyzer/standard"

	"grantnet/internal/network/models"
)

const standardAnalyzerName = "standard"

// UncategorizedID is the cluster that holds recipients with no usable keywords.
const UncategorizedID = "uncategorized"

const labelKeywords = 2

// Config tunes keyword extraction and cluster assignment.
type Config struct {
	MinKeywordLength int     `yaml:"min_keyword_length"`
	MaxKeywords      int     `yaml:"max_keywords"`
	OverlapThreshold float64 `yaml:"overlap_threshold"`
}

// DefaultConfig returns the production clustering settings.
func DefaultConfig() Config {
	return Config{
		MinKeywordLength: 4,
		MaxKeywords:      8,
		OverlapThreshold: 0.3,
	}
}

func (c *Config) applyDefaults() {
	defaults := DefaultConfig()
	if c.MinKeywordLength <= 0 {
		c.MinKeywordLength = defaults.MinKeywordLength
	}
	if c.MaxKeywords <= 0 {
		c.MaxKeywords = defaults.MaxKeywords
	}
	if c.OverlapThreshold == 0 {
		c.OverlapThreshold = defaults.OverlapThreshold
	}
}

// Clusterer extracts keywords with a bleve analyzer and assigns clusters.
type Clusterer struct {
	analyzer analysis.Analyzer
	config   Config
}

// New builds a Clusterer. Zero fields in cfg take their defaults.
func New(cfg Config) (*Clusterer, error) {
	cfg.applyDefaults()
	if cfg.OverlapThreshold < 0 || cfg.OverlapThreshold >= 1 {
		return nil, fmt.Errorf("overlap threshold must be in [0, 1), got %v", cfg.OverlapThreshold)
	}
	analyzer, err := registry.NewCache().AnalyzerNamed(standardAnalyzerName)
	if err != nil {
		return nil, fmt.Errorf("load %s analyzer: %w", standardAnalyzerName, err)
	}
	return &Clusterer{analyzer: analyzer, config: cfg}, nil
}

// Keywords returns up to MaxKeywords significant terms from text, most
// frequent first with ties broken alphabetically.
func (c *Clusterer) Keywords(text string) []string {
	counts := c.terms(text)
	if len(counts) == 0 {
		return nil
	}
	return topTerms(counts, c.config.MaxKeywords)
}

// AnnotateCommonPurposes sets each recipient's CommonPurposes to the purpose
// terms used by at least two of its funding sources, in alphabetical order.
func (c *Clusterer) AnnotateCommonPurposes(recipients []models.BundledRecipient) {
	for i := range recipients {
		sourcesUsing := make(map[string]int)
		for _, src := range recipients[i].Sources {
			for term := range c.terms(strings.Join(src.Purposes, " ")) {
				sourcesUsing[term]++
			}
		}
		var common []string
		for term, n := range sourcesUsing {
			if n >= 2 {
				common = append(common, term)
			}
		}
		slices.Sort(common)
		recipients[i].CommonPurposes = common
	}
}

// terms counts the significant tokens of text.
func (c *Clusterer) terms(text string) map[string]int {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	counts := make(map[string]int)
	for _, token := range c.analyzer.Analyze([]byte(text)) {
		term := string(token.Term)
		if len([]rune(term)) < c.config.MinKeywordLength || isNumeric(term) {
			continue
		}
		counts[term]++
	}
	return counts
}

type cluster struct {
	signature map[string]struct{}
	keywords  []string
	members   []int
	termFreq  map[string]int
}

// Cluster partitions recipients into thematic clusters and sets each
// recipient's Cluster field. Every recipient lands in exactly one cluster and
// no cluster is empty.
func (c *Clusterer) Cluster(recipients []models.BundledRecipient) []models.ThematicCluster {
	order := make([]int, len(recipients))
	for i := range order {
		order[i] = i
	}
	slices.SortStableFunc(order, func(a, b int) int {
		ra, rb := recipients[a], recipients[b]
		return cmp.Or(
			cmp.Compare(rb.TotalFunding, ra.TotalFunding),
			cmp.Compare(rb.FunderCount, ra.FunderCount),
			cmp.Compare(ra.Key, rb.Key),
		)
	})

	var clusters []*cluster
	var uncategorized []int
	for _, idx := range order {
		keywords := c.Keywords(recipients[idx].PurposeText())
		if len(keywords) == 0 {
			uncategorized = append(uncategorized, idx)
			continue
		}
		target := c.firstMatch(clusters, keywords)
		if target == nil {
			target = &cluster{
				signature: toSet(keywords),
				keywords:  keywords,
				termFreq:  make(map[string]int),
			}
			clusters = append(clusters, target)
		}
		target.members = append(target.members, idx)
		for _, kw := range keywords {
			target.termFreq[kw]++
		}
	}

	out := make([]models.ThematicCluster, 0, len(clusters)+1)
	for n, cl := range clusters {
		id := fmt.Sprintf("cluster-%d", n+1)
		out = append(out, models.ThematicCluster{
			ID:         id,
			Label:      strings.Join(topTerms(cl.termFreq, labelKeywords), " / "),
			Keywords:   cl.keywords,
			Recipients: assign(recipients, cl.members, id),
		})
	}
	if len(uncategorized) > 0 {
		out = append(out, models.ThematicCluster{
			ID:         UncategorizedID,
			Label:      UncategorizedID,
			Keywords:   []string{},
			Recipients: assign(recipients, uncategorized, UncategorizedID),
		})
	}
	return out
}

func (c *Clusterer) firstMatch(clusters []*cluster, keywords []string) *cluster {
	for _, cl := range clusters {
		if OverlapCoefficient(cl.signature, keywords) > c.config.OverlapThreshold {
			return cl
		}
	}
	return nil
}

// OverlapCoefficient is |sig ∩ kw| / min(|sig|, |kw|), or 0 when either side
// is empty.
func OverlapCoefficient(signature map[string]struct{}, keywords []string) float64 {
	smaller := min(len(signature), len(keywords))
	if smaller == 0 {
		return 0
	}
	shared := 0
	for _, kw := range keywords {
		if _, ok := signature[kw]; ok {
			shared++
		}
	}
	return float64(shared) / float64(smaller)
}

func assign(recipients []models.BundledRecipient, members []int, id string) []models.RecipientKey {
	keys := make([]models.RecipientKey, 0, len(members))
	for _, idx := range members {
		recipients[idx].Cluster = id
		keys = append(keys, recipients[idx].Key)
	}
	return keys
}

func topTerms(counts map[string]int, limit int) []string {
	terms := make([]string, 0, len(counts))
	for term := range counts {
		terms = append(terms, term)
	}
	slices.SortFunc(terms, func(a, b string) int {
		return cmp.Or(cmp.Compare(counts[b], counts[a]), cmp.Compare(a, b))
	})
	if len(terms) > limit {
		terms = terms[:limit]
	}
	return terms
}

func toSet(values []string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return set
}

func isNumeric(term string) bool {
	for _, r := range term {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
