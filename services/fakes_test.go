package services

import (
	"sync"

	"pingpong-bot/models"

	"github.com/slack-go/slack"
)

// fakeStore is an in-memory MatchStore with injectable failures.
type fakeStore struct {
	mu      sync.Mutex
	matches map[string]models.Match
	results []models.Result

	createErr error
	getErr    error
	deleteErr error
	appendErr error
}

func newFakeStore() *fakeStore {
	return &fakeStore{matches: map[string]models.Match{}}
}

func (s *fakeStore) CreateOrReplace(m *models.Match) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.createErr != nil {
		return s.createErr
	}
	s.matches[m.ID] = *m
	return nil
}

func (s *fakeStore) Get(id string) (*models.Match, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.getErr != nil {
		return nil, s.getErr
	}
	m, ok := s.matches[id]
	if !ok {
		return nil, nil
	}
	return &m, nil
}

func (s *fakeStore) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.deleteErr != nil {
		return s.deleteErr
	}
	delete(s.matches, id)
	return nil
}

func (s *fakeStore) AppendResult(r *models.Result) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.appendErr != nil {
		return s.appendErr
	}
	s.results = append(s.results, *r)
	return nil
}

func (s *fakeStore) onlyMatch() (models.Match, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, m := range s.matches {
		return m, true
	}
	return models.Match{}, false
}

type postCall struct {
	channel string
	text    string
	blocks  []slack.Block
}

type dmCall struct {
	user string
	text string
}

type respondCall struct {
	url       string
	text      string
	blocks    []slack.Block
	inChannel bool
}

type viewCall struct {
	id   string // trigger id for opens, view id for updates
	view slack.ModalViewRequest
}

// fakeChat records every outbound call and fails on demand.
type fakeChat struct {
	joinErr    error
	postErr    error
	dmErr      error
	openErr    error
	updateErr  error
	respondErr error

	joins    []string
	posts    []postCall
	dms      []dmCall
	opened   []viewCall
	updated  []viewCall
	responds []respondCall
}

func (c *fakeChat) JoinChannel(channelID string) error {
	c.joins = append(c.joins, channelID)
	return c.joinErr
}

func (c *fakeChat) PostMessage(channelID, text string, blocks []slack.Block) error {
	if c.postErr != nil {
		return c.postErr
	}
	c.posts = append(c.posts, postCall{channel: channelID, text: text, blocks: blocks})
	return nil
}

func (c *fakeChat) PostDM(userID, text string) error {
	if c.dmErr != nil {
		return c.dmErr
	}
	c.dms = append(c.dms, dmCall{user: userID, text: text})
	return nil
}

func (c *fakeChat) OpenView(triggerID string, view slack.ModalViewRequest) error {
	if c.openErr != nil {
		return c.openErr
	}
	c.opened = append(c.opened, viewCall{id: triggerID, view: view})
	return nil
}

func (c *fakeChat) UpdateView(viewID string, view slack.ModalViewRequest) error {
	if c.updateErr != nil {
		return c.updateErr
	}
	c.updated = append(c.updated, viewCall{id: viewID, view: view})
	return nil
}

func (c *fakeChat) Respond(responseURL, text string, blocks []slack.Block, inChannel bool) error {
	if c.respondErr != nil {
		return c.respondErr
	}
	c.responds = append(c.responds, respondCall{url: responseURL, text: text, blocks: blocks, inChannel: inChannel})
	return nil
}

func newTestService(store *fakeStore, chat *fakeChat) *MatchService {
	s := NewMatchService(store, chat)
	s.newMatchID = func(challengerID string) string {
		return "match_" + challengerID + "_test"
	}
	return s
}
