package service_test

import (
	"context"
	"testing"

	"rocktalk-be/internal/dto"
	"rocktalk-be/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearchService(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	golang := seedConversation(t, f, "How do type parameters work?", "Generics use brackets in Go.")
	_, err := f.sessions().Rename(ctx, golang, "Go generics")
	require.NoError(t, err)

	cooking := seedConversation(t, f, "Best pasta sauce?", "Tomato and basil.")
	_, err = f.sessions().Rename(ctx, cooking, "Pasta")
	require.NoError(t, err)

	private, err := f.sessions().Create(ctx, &dto.CreateSessionRequest{Title: "Secret generics", IsPrivate: true})
	require.NoError(t, err)

	search := service.NewSearchService(f.uow, f.log)

	res, err := search.Search(ctx, &dto.SearchRequest{Query: "generics"})
	require.NoError(t, err)
	require.Len(t, res.Results, 1)
	hit := res.Results[0]
	assert.Equal(t, golang, hit.Session.Id)
	assert.True(t, hit.TitleMatch)
	require.Len(t, hit.Matches, 1)
	assert.Equal(t, 1, hit.Matches[0].MessageIndex)
	assert.Contains(t, hit.Matches[0].Snippet, "Generics")

	res, err = search.Search(ctx, &dto.SearchRequest{Query: "generics /private /title"})
	require.NoError(t, err)
	require.Len(t, res.Results, 2)
	ids := []interface{}{res.Results[0].Session.Id, res.Results[1].Session.Id}
	assert.Contains(t, ids, private.Id)
	for _, r := range res.Results {
		assert.Empty(t, r.Matches)
	}

	res, err = search.Search(ctx, &dto.SearchRequest{Query: `"type parameters" basil /or`})
	require.NoError(t, err)
	assert.Equal(t, "OR", res.Operator)
	assert.Len(t, res.Results, 2)

	res, err = search.Search(ctx, &dto.SearchRequest{Terms: []string{"pasta", "basil"}, Operator: "and", SearchContent: true})
	require.NoError(t, err)
	require.Len(t, res.Results, 1)
	assert.Equal(t, cooking, res.Results[0].Session.Id)
	assert.False(t, res.Results[0].TitleMatch)

	res, err = search.Search(ctx, &dto.SearchRequest{Terms: []string{"tom*sil"}})
	require.NoError(t, err)
	require.Len(t, res.Results, 1)
	assert.Equal(t, cooking, res.Results[0].Session.Id)

	res, err = search.Search(ctx, &dto.SearchRequest{Query: "   "})
	require.NoError(t, err)
	assert.Empty(t, res.Results)
}

func TestSearchService_PercentAndUnderscoreAreLiteral(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	snake := seedConversation(t, f, "rename user_id please")
	seedConversation(t, f, "rename userXid please")
	sure := seedConversation(t, f, "I am 100% sure")
	seedConversation(t, f, "I am 1000 sure")

	search := service.NewSearchService(f.uow, f.log)

	res, err := search.Search(ctx, &dto.SearchRequest{Terms: []string{"user_id"}, SearchContent: true})
	require.NoError(t, err)
	require.Len(t, res.Results, 1)
	assert.Equal(t, snake, res.Results[0].Session.Id)

	res, err = search.Search(ctx, &dto.SearchRequest{Terms: []string{"100%"}, SearchContent: true})
	require.NoError(t, err)
	require.Len(t, res.Results, 1)
	assert.Equal(t, sure, res.Results[0].Session.Id)

	res, err = search.Search(ctx, &dto.SearchRequest{Terms: []string{"user*id"}, SearchContent: true})
	require.NoError(t, err)
	assert.Len(t, res.Results, 2)
}
