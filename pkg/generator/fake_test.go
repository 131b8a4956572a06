package generator

import (
	"context"
	"sync"

	"github.com/shouni/go-story-weaver/pkg/adapters"
)

// fakeCapability は呼び出しを記録するテスト用の Capability なのだ。
type fakeCapability struct {
	mu sync.Mutex

	textReqs   []adapters.TextRequest
	imageReqs  []adapters.ImageRequest
	videoReqs  []adapters.VideoRequest
	speechReqs []adapters.SpeechRequest
	polls      int
	fetches    []string

	textResult   adapters.TextResult
	textErr      error
	imageResult  adapters.ImageResult
	imageErr     error
	startErr     error
	pollsUntil   int
	neverDone    bool
	opError      string
	videoURI     string
	fetchResult  adapters.MediaPayload
	fetchErr     error
	speechResult adapters.SpeechResult
	speechErr    error
}

func (f *fakeCapability) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.textReqs) + len(f.imageReqs) + len(f.videoReqs) + len(f.speechReqs) + f.polls + len(f.fetches)
}

func (f *fakeCapability) GenerateText(_ context.Context, req adapters.TextRequest) (adapters.TextResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.textReqs = append(f.textReqs, req)
	return f.textResult, f.textErr
}

func (f *fakeCapability) GenerateImages(_ context.Context, req adapters.ImageRequest) (adapters.ImageResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.imageReqs = append(f.imageReqs, req)
	return f.imageResult, f.imageErr
}

func (f *fakeCapability) StartVideo(_ context.Context, req adapters.VideoRequest) (adapters.VideoOperation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.videoReqs = append(f.videoReqs, req)
	if f.startErr != nil {
		return adapters.VideoOperation{}, f.startErr
	}
	return adapters.VideoOperation{Name: "operations/test"}, nil
}

func (f *fakeCapability) PollVideo(_ context.Context, op adapters.VideoOperation) (adapters.VideoOperation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.polls++
	if f.neverDone || f.polls < f.pollsUntil {
		return op, nil
	}
	op.Done = true
	op.ErrorMessage = f.opError
	op.URI = f.videoURI
	return op, nil
}

func (f *fakeCapability) FetchVideo(_ context.Context, uri string) (adapters.MediaPayload, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fetches = append(f.fetches, uri)
	return f.fetchResult, f.fetchErr
}

func (f *fakeCapability) GenerateSpeech(_ context.Context, req adapters.SpeechRequest) (adapters.SpeechResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.speechReqs = append(f.speechReqs, req)
	return f.speechResult, f.speechErr
}

// fakeSelector は選択状態を切り替えられるテスト用セレクタです。
type fakeSelector struct {
	selected    bool
	selectOnAsk bool
	requests    int
}

func (s *fakeSelector) HasSelectedKey(context.Context) bool { return s.selected }

func (s *fakeSelector) RequestSelection(context.Context) error {
	s.requests++
	if s.selectOnAsk {
		s.selected = true
	}
	return nil
}
