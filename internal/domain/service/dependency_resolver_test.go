package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AvnerHilu2025/ginom-mockup/internal/domain/model"
	"github.com/AvnerHilu2025/ginom-mockup/internal/error/enginerr"
)

func chainFixture() *fakeStore {
	st := newFakeStore()
	st.assets = []model.Asset{
		{ID: "X", City: "Jerusalem", Sector: model.SectorElectricity, Subtype: "plant"},
		{ID: "Y", City: "Jerusalem", Sector: model.SectorWater, Subtype: "pump"},
		{ID: "Z", City: "Jerusalem", Sector: model.SectorWater, Subtype: "tank"},
		{ID: "W", City: "Jerusalem", Sector: model.SectorCommunication, Subtype: "tower"},
	}
	st.deps = []model.Dependency{
		{ProviderAssetID: "X", ConsumerAssetID: "Y", DependencyType: "power", Priority: 1, IsActive: true},
		{ProviderAssetID: "Y", ConsumerAssetID: "Z", DependencyType: "water", Priority: 1, IsActive: true},
		{ProviderAssetID: "Z", ConsumerAssetID: "W", DependencyType: "water", Priority: 1, IsActive: true},
	}
	return st
}

func TestChainUpstreamFromLeaf(t *testing.T) {
	st := chainFixture()
	r := NewDependencyResolver(st, nil)

	result, err := r.Chain("W", model.Upstream, 2)
	require.NoError(t, err)

	var nodeIDs []string
	for _, n := range result.Nodes {
		nodeIDs = append(nodeIDs, n.ID)
	}
	assert.ElementsMatch(t, []string{"W", "Z", "Y"}, nodeIDs)

	require.Len(t, result.Edges, 2)
	assert.Equal(t, "W", result.Edges[0].From)
	assert.Equal(t, "Z", result.Edges[0].To)
	assert.Equal(t, 1, result.Edges[0].Level)
	assert.Equal(t, "Z", result.Edges[1].From)
	assert.Equal(t, "Y", result.Edges[1].To)
	assert.Equal(t, 2, result.Edges[1].Level)
}

func TestChainMaxDepthOneOnLeaf(t *testing.T) {
	st := chainFixture()
	r := NewDependencyResolver(st, nil)

	result, err := r.Chain("X", model.Upstream, 1)
	require.NoError(t, err)
	assert.Len(t, result.Nodes, 1)
	assert.Equal(t, "X", result.Nodes[0].ID)
	assert.Empty(t, result.Edges)
}

func TestChainUnknownRoot(t *testing.T) {
	st := chainFixture()
	r := NewDependencyResolver(st, nil)

	_, err := r.Chain("NOPE", model.Downstream, 1)
	require.Error(t, err)
	e, ok := enginerr.As(err)
	require.True(t, ok)
	assert.Equal(t, "NOT_FOUND", e.Kind())
}

func TestChainInvalidDirection(t *testing.T) {
	st := chainFixture()
	r := NewDependencyResolver(st, nil)

	_, err := r.Chain("X", "sideways", 1)
	require.Error(t, err)
	e, ok := enginerr.As(err)
	require.True(t, ok)
	assert.Equal(t, "BAD_INPUT", e.Kind())
}

func TestChainInvalidDepth(t *testing.T) {
	st := chainFixture()
	r := NewDependencyResolver(st, nil)

	_, err := r.Chain("X", model.Downstream, 0)
	require.Error(t, err)

	_, err = r.Chain("X", model.Downstream, 13)
	require.Error(t, err)
}

func TestGraphScopesToCity(t *testing.T) {
	st := chainFixture()
	st.assets = append(st.assets, model.Asset{ID: "OUT", City: "Haifa", Sector: model.SectorWater, Subtype: "pump"})
	st.deps = append(st.deps, model.Dependency{ProviderAssetID: "X", ConsumerAssetID: "OUT", DependencyType: "power", Priority: 1, IsActive: true})

	r := NewDependencyResolver(st, nil)
	result, err := r.Graph("Jerusalem")
	require.NoError(t, err)

	assert.Len(t, result.Nodes, 4)
	for _, link := range result.Links {
		assert.NotEqual(t, "OUT", link.From)
		assert.NotEqual(t, "OUT", link.To)
	}
}
