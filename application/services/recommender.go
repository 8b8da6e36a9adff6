package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"stylegraph/application/ports"
	"stylegraph/domain/catalog"
	domainservices "stylegraph/domain/services"
	"stylegraph/pkg/observability"
)

// recommendedMarker prefixes the id list embedded in the chat context so
// the frontend can recover the recommendation set from the reply context.
const recommendedMarker = "recommended:"

// maxRecommendations caps how many products a single chat answer promotes.
const maxRecommendations = 5

// ChatResult is the outcome of one chat turn
type ChatResult struct {
	Reply          string   `json:"reply"`
	RecommendedIDs []string `json:"recommended_ids"`
	Context        string   `json:"context"`
}

// Recommender answers catalog questions. It narrows the catalog with
// keyword attribute extraction, ranks the candidates by a blend of
// centrality and connectedness, and hands the result to the language
// model as grounding context.
type Recommender struct {
	productRepo ports.ProductRepository
	edgeRepo    ports.EdgeRepository
	provider    ports.ChatProvider
	analyzer    *domainservices.TextAnalyzer
	collector   *observability.Collector
	logger      *zap.Logger
}

// NewRecommender creates a recommender
func NewRecommender(
	productRepo ports.ProductRepository,
	edgeRepo ports.EdgeRepository,
	provider ports.ChatProvider,
	collector *observability.Collector,
	logger *zap.Logger,
) *Recommender {
	return &Recommender{
		productRepo: productRepo,
		edgeRepo:    edgeRepo,
		provider:    provider,
		analyzer:    domainservices.NewTextAnalyzer(),
		collector:   collector,
		logger:      logger,
	}
}

// Chat runs one chat turn against the catalog
func (r *Recommender) Chat(ctx context.Context, query string) (*ChatResult, error) {
	started := time.Now()

	candidates, err := r.selectCandidates(ctx, query)
	if err != nil {
		r.collector.ChatRequests.WithLabelValues("error").Inc()
		return nil, err
	}

	contextBlock := r.buildContext(candidates)
	reply, err := r.provider.Complete(ctx, query, contextBlock)
	if err != nil {
		r.collector.ChatRequests.WithLabelValues("provider_error").Inc()
		return nil, err
	}

	ids := make([]string, 0, len(candidates))
	for _, c := range candidates {
		ids = append(ids, c.ID)
	}

	r.collector.ChatRequests.WithLabelValues("ok").Inc()
	r.logger.Info("chat turn completed",
		zap.String("provider", r.provider.Name()),
		zap.Int("candidates", len(candidates)),
		zap.Duration("elapsed", time.Since(started)))

	return &ChatResult{
		Reply:          reply,
		RecommendedIDs: ids,
		Context:        contextBlock,
	}, nil
}

// selectCandidates narrows the catalog with a repository search over the
// extracted attributes and ranks what comes back. The blend favors
// similarity degree over raw centrality so well-connected niche products
// still surface.
func (r *Recommender) selectCandidates(ctx context.Context, query string) ([]*catalog.Product, error) {
	attrs := r.analyzer.Analyze(query)

	matched, err := r.productRepo.Search(ctx, ports.SearchCriteria{
		Gender:   attrs.Gender,
		Color:    attrs.Color,
		NameLike: attrs.ProductType,
	})
	if err != nil {
		return nil, err
	}
	edges, err := r.edgeRepo.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	degrees := make(map[string]int, len(matched))
	for _, e := range edges {
		degrees[e.SourceID]++
		degrees[e.TargetID]++
	}
	maxDegree := 0
	for _, d := range degrees {
		if d > maxDegree {
			maxDegree = d
		}
	}

	score := func(p *catalog.Product) float64 {
		degree := 0.0
		if maxDegree > 0 {
			degree = float64(degrees[p.ID]) / float64(maxDegree)
		}
		return 0.4*p.PageRank + 0.6*degree
	}
	sort.SliceStable(matched, func(i, j int) bool {
		return score(matched[i]) > score(matched[j])
	})

	if len(matched) > maxRecommendations {
		matched = matched[:maxRecommendations]
	}
	return matched, nil
}

// buildContext renders the candidate products as grounding text for the
// model, ending with the machine-readable recommended id list.
func (r *Recommender) buildContext(candidates []*catalog.Product) string {
	var sb strings.Builder
	sb.WriteString("Catalog products relevant to the question:\n")

	ids := make([]string, 0, len(candidates))
	for _, p := range candidates {
		fmt.Fprintf(&sb, "- %s: %s (%s, %s, %s, %.0f)\n",
			p.ID, p.Name, p.Brand, p.Gender, p.Color, p.Price)
		ids = append(ids, p.ID)
	}

	sb.WriteString(recommendedMarker)
	sb.WriteString(strings.Join(ids, ","))
	return sb.String()
}

// ParseRecommendedContext extracts the recommended product ids from a chat
// context string. The marker may appear anywhere in the text; everything
// from it to the end of its line is the comma-joined id list.
func ParseRecommendedContext(contextBlock string) []string {
	idx := strings.Index(contextBlock, recommendedMarker)
	if idx < 0 {
		return nil
	}

	rest := contextBlock[idx+len(recommendedMarker):]
	if nl := strings.IndexByte(rest, '\n'); nl >= 0 {
		rest = rest[:nl]
	}

	var ids []string
	for _, part := range strings.Split(rest, ",") {
		if id := strings.TrimSpace(part); id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}
