package gateway

import (
	"context"
	"iter"
	"sync"

	"github.com/compustack/aether/pkg/model"
)

type streamStep struct {
	text string
	err  error
}

// fakeProvider is a scripted model.Provider.
type fakeProvider struct {
	mu sync.Mutex

	textResp   *model.ContentResponse
	imageResp  *model.ContentResponse
	speechResp *model.ContentResponse
	callErr    error

	stream []streamStep

	startOp   *model.Operation
	startErr  error
	pollOps   []model.Operation
	pollErr   error
	pollCalls int

	blob        *model.Blob
	downloadErr error
	downloaded  []string

	requests []model.ProviderRequest
}

func (f *fakeProvider) Name() string {
	return "fake"
}

func (f *fakeProvider) remember(req model.ProviderRequest) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, req)
}

func (f *fakeProvider) lastRequest() model.ProviderRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.requests[len(f.requests)-1]
}

func (f *fakeProvider) GenerateText(_ context.Context, req model.ProviderRequest) (*model.ContentResponse, error) {
	f.remember(req)
	return f.textResp, f.callErr
}

func (f *fakeProvider) StreamText(_ context.Context, req model.ProviderRequest) iter.Seq2[string, error] {
	f.remember(req)
	return func(yield func(string, error) bool) {
		for _, step := range f.stream {
			if !yield(step.text, step.err) {
				return
			}
			if step.err != nil {
				return
			}
		}
	}
}

func (f *fakeProvider) GenerateImage(_ context.Context, req model.ProviderRequest) (*model.ContentResponse, error) {
	f.remember(req)
	return f.imageResp, f.callErr
}

func (f *fakeProvider) GenerateSpeech(_ context.Context, req model.ProviderRequest) (*model.ContentResponse, error) {
	f.remember(req)
	return f.speechResp, f.callErr
}

func (f *fakeProvider) StartVideoJob(_ context.Context, req model.ProviderRequest) (*model.Operation, error) {
	f.remember(req)
	return f.startOp, f.startErr
}

func (f *fakeProvider) PollVideoJob(_ context.Context, op model.Operation) (*model.Operation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pollCalls++
	if f.pollErr != nil {
		return nil, f.pollErr
	}
	if len(f.pollOps) == 0 {
		return &op, nil
	}
	next := f.pollOps[0]
	f.pollOps = f.pollOps[1:]
	return &next, nil
}

func (f *fakeProvider) DownloadAsset(_ context.Context, uri string) (*model.Blob, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.downloaded = append(f.downloaded, uri)
	return f.blob, f.downloadErr
}

func (f *fakeProvider) polls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.pollCalls
}

func inlineResponse(data string) *model.ContentResponse {
	return &model.ContentResponse{Parts: []model.Part{{InlineData: &model.InlineData{MIMEType: "image/png", Data: data}}}}
}
