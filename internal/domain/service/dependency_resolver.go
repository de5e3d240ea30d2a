package service

import (
	"context"
	"fmt"

	"github.com/AvnerHilu2025/ginom-mockup/internal/domain/model"
	"github.com/AvnerHilu2025/ginom-mockup/internal/error/enginerr"
)

// ChainResult is the reachable subgraph returned by a dependency walk.
type ChainResult struct {
	RootAssetID string        `json:"root_asset_id"`
	Nodes       []model.Asset `json:"nodes"`
	Edges       []model.Edge  `json:"edges"`
}

// GraphResult is the full structural view of a city's active-edge set.
type GraphResult struct {
	Nodes []model.Asset `json:"nodes"`
	Links []model.Edge  `json:"links"`
}

const maxChainDepth = 12

// DependencyResolver performs bounded directed BFS over the active
// dependency edge set.
type DependencyResolver struct {
	store Store
	cache Cache
}

// NewDependencyResolver constructs a resolver backed by store, consulting
// cache for chain reads before falling back to a live BFS. cache may be nil.
func NewDependencyResolver(store Store, cache Cache) *DependencyResolver {
	return &DependencyResolver{store: store, cache: cache}
}

// adjacency indexes edges by their "from" endpoint for a given traversal
// direction: downstream uses the edge set as stored (provider -> consumer);
// upstream reverses it (consumer -> provider).
type adjacency map[string][]model.Edge

func buildAdjacency(deps []model.Dependency, direction model.Direction) adjacency {
	adj := make(adjacency)
	for _, d := range deps {
		if !d.IsActive {
			continue
		}
		from, to := d.ProviderAssetID, d.ConsumerAssetID
		if direction == model.Upstream {
			from, to = to, from
		}
		adj[from] = append(adj[from], model.Edge{
			From:     from,
			To:       to,
			Type:     d.DependencyType,
			Priority: d.Priority,
		})
	}
	return adj
}

// Chain walks (rootAssetID, direction, maxDepth) and returns the reachable
// subgraph. The root is always present as a node when it exists, even with
// no edges (maxDepth=1 on a leaf, per spec §8).
func (r *DependencyResolver) Chain(rootAssetID string, direction model.Direction, maxDepth int) (*ChainResult, error) {
	if direction != model.Upstream && direction != model.Downstream {
		return nil, enginerr.BadInput(fmt.Sprintf("invalid direction %q", direction))
	}
	if maxDepth < 1 || maxDepth > maxChainDepth {
		return nil, enginerr.BadInput(fmt.Sprintf("max_depth must be in [1,%d]", maxChainDepth))
	}

	ctx := context.Background()
	if r.cache != nil {
		var cached ChainResult
		if r.cache.GetChain(ctx, rootAssetID, string(direction), maxDepth, &cached) {
			return &cached, nil
		}
	}

	result, err := r.computeChain(rootAssetID, direction, maxDepth)
	if err != nil {
		return nil, err
	}

	if r.cache != nil {
		r.cache.PutChain(ctx, rootAssetID, string(direction), maxDepth, result)
	}
	return result, nil
}

// computeChain runs the actual bounded BFS, bypassing the cache. Split out
// of Chain so a cache hit never has to fight with the walk's early-return
// error paths.
func (r *DependencyResolver) computeChain(rootAssetID string, direction model.Direction, maxDepth int) (*ChainResult, error) {
	deps, err := r.store.ActiveDependencies()
	if err != nil {
		return nil, enginerr.Internal(err)
	}
	adj := buildAdjacency(deps, direction)

	visited := map[string]int{rootAssetID: 0}
	order := []string{rootAssetID}

	type edgeKey struct {
		from, to, typ string
		priority      int
	}
	seenEdges := make(map[edgeKey]bool)
	var edges []model.Edge

	queue := []string{rootAssetID}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		depth := visited[cur]
		if depth >= maxDepth {
			continue
		}
		for _, e := range adj[cur] {
			key := edgeKey{e.From, e.To, e.Type, e.Priority}
			if seenEdges[key] {
				continue
			}
			seenEdges[key] = true
			e.Level = depth + 1
			edges = append(edges, e)

			if _, ok := visited[e.To]; !ok {
				visited[e.To] = depth + 1
				order = append(order, e.To)
				queue = append(queue, e.To)
			}
		}
	}

	nodes, err := r.store.AssetsByIDs(order)
	if err != nil {
		return nil, enginerr.Internal(err)
	}
	found := false
	for _, n := range nodes {
		if n.ID == rootAssetID {
			found = true
			break
		}
	}
	if !found {
		return nil, enginerr.NotFound(fmt.Sprintf("asset %q not found", rootAssetID))
	}

	if edges == nil {
		edges = []model.Edge{}
	}
	return &ChainResult{RootAssetID: rootAssetID, Nodes: nodes, Edges: edges}, nil
}

// Graph returns the full structural view of a city's active-edge set,
// without bounding the walk to one root.
func (r *DependencyResolver) Graph(city string) (*GraphResult, error) {
	assets, err := r.store.AssetsByCity(city)
	if err != nil {
		return nil, enginerr.Internal(err)
	}
	inCity := make(map[string]bool, len(assets))
	for _, a := range assets {
		inCity[a.ID] = true
	}

	deps, err := r.store.ActiveDependencies()
	if err != nil {
		return nil, enginerr.Internal(err)
	}

	links := make([]model.Edge, 0, len(deps))
	for _, d := range deps {
		if !d.IsActive {
			continue
		}
		if !inCity[d.ProviderAssetID] || !inCity[d.ConsumerAssetID] {
			continue
		}
		links = append(links, model.Edge{
			From:     d.ProviderAssetID,
			To:       d.ConsumerAssetID,
			Type:     d.DependencyType,
			Priority: d.Priority,
		})
	}

	return &GraphResult{Nodes: assets, Links: links}, nil
}
