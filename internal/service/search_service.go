package service

import (
	"context"
	"strings"

	"rocktalk-be/internal/dto"
	"rocktalk-be/internal/entity"
	"rocktalk-be/internal/pkg/logger"
	"rocktalk-be/internal/repository/specification"
	"rocktalk-be/internal/repository/unitofwork"
	"rocktalk-be/pkg/search"
)

const (
	defaultSearchLimit   = 100
	maxMatchesPerSession = 3
)

type ISearchService interface {
	Search(ctx context.Context, request *dto.SearchRequest) (*dto.SearchResponse, error)
}

type searchService struct {
	uowFactory unitofwork.RepositoryFactory
	logger     logger.ILogger
}

func NewSearchService(uowFactory unitofwork.RepositoryFactory, log logger.ILogger) ISearchService {
	return &searchService{
		uowFactory: uowFactory,
		logger:     log,
	}
}

// filters turns the request into search filters. A raw query wins over the
// explicit fields; with neither titles nor content selected both are searched.
func filters(request *dto.SearchRequest) search.Filters {
	if strings.TrimSpace(request.Query) != "" {
		f := search.ParseQuery(request.Query)
		f.IncludePrivate = f.IncludePrivate || request.IncludePrivate
		return f
	}

	f := search.Filters{
		Terms:          request.Terms,
		Operator:       strings.ToUpper(request.Operator),
		SearchTitles:   request.SearchTitles,
		SearchContent:  request.SearchContent,
		IncludePrivate: request.IncludePrivate,
	}
	if f.Operator == "" {
		f.Operator = specification.OperatorAnd
	}
	if !f.SearchTitles && !f.SearchContent {
		f.SearchTitles, f.SearchContent = true, true
	}
	if request.From != nil {
		f.From = *request.From
	}
	if request.To != nil {
		f.To = *request.To
	}
	return f
}

func (s *searchService) Search(ctx context.Context, request *dto.SearchRequest) (*dto.SearchResponse, error) {
	f := filters(request)

	var terms []string
	for _, t := range f.Terms {
		if t = strings.TrimSpace(t); t != "" {
			terms = append(terms, t)
		}
	}

	res := &dto.SearchResponse{
		Terms:    terms,
		Operator: f.Operator,
		Results:  []*dto.SearchResultResponse{},
	}
	if len(terms) == 0 {
		return res, nil
	}

	limit := request.Limit
	if limit <= 0 {
		limit = defaultSearchLimit
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	sessions, err := uow.ChatSessionRepository().FindAll(ctx,
		specification.SessionSearch{
			Terms:         terms,
			Operator:      f.Operator,
			SearchTitles:  f.SearchTitles,
			SearchContent: f.SearchContent,
			From:          f.From,
			To:            f.To,
		},
		specification.VisibleSessions{IncludePrivate: f.IncludePrivate},
		specification.RecentFirst(),
		specification.Pagination{Limit: limit},
	)
	if err != nil {
		return nil, err
	}

	matcher := search.NewMatcher(terms, f.Operator)
	for _, session := range sessions {
		result := &dto.SearchResultResponse{
			Session:    dto.NewSessionResponse(session),
			TitleMatch: f.SearchTitles && matcher.MatchAny(session.Title),
			Matches:    []dto.SearchMatch{},
		}

		if f.SearchContent {
			messages, err := uow.ChatMessageRepository().FindAll(ctx,
				specification.ByChatSessionID{ChatSessionID: session.Id},
				specification.ByMessageOrder(),
			)
			if err != nil {
				return nil, err
			}
			result.Matches = matches(matcher, messages, f)
		}

		res.Results = append(res.Results, result)
	}

	s.logger.Debug("SEARCH", "Search completed", map[string]interface{}{
		"terms":   terms,
		"results": len(res.Results),
	})

	return res, nil
}

func matches(matcher *search.Matcher, messages []*entity.ChatMessage, f search.Filters) []dto.SearchMatch {
	out := []dto.SearchMatch{}
	for _, msg := range messages {
		if !f.From.IsZero() && msg.CreatedAt.Before(f.From) {
			continue
		}
		if !f.To.IsZero() && msg.CreatedAt.After(f.To) {
			continue
		}
		text := msg.Text()
		if !matcher.MatchAny(text) {
			continue
		}
		out = append(out, dto.SearchMatch{
			MessageIndex: msg.Index,
			Role:         msg.Role,
			Snippet:      matcher.Snippet(text),
		})
		if len(out) == maxMatchesPerSession {
			break
		}
	}
	return out
}
