package adapters

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/shouni/go-http-kit/httpkit"
)

// newTestFetcher はローカルのテストサーバーに接続できる MediaFetcher を返すのだ。
func newTestFetcher(srv *httptest.Server, apiKey string) *MediaFetcher {
	client := httpkit.New(time.Second, httpkit.WithHTTPClient(srv.Client()), httpkit.WithMaxRetries(0))
	return NewMediaFetcher(client, apiKey)
}

func TestMediaFetcher_Fetch(t *testing.T) {
	t.Run("APIキーをヘッダに付けて取得すること", func(t *testing.T) {
		var gotKey string
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotKey = r.Header.Get("x-goog-api-key")
			w.Write([]byte("movie-bytes"))
		}))
		defer srv.Close()

		payload, err := newTestFetcher(srv, "secret-key").Fetch(context.Background(), srv.URL+"/files/abc:download")
		if err != nil {
			t.Fatalf("取得に失敗しました: %v", err)
		}
		if gotKey != "secret-key" {
			t.Errorf("APIキーが送られていません: %q", gotKey)
		}
		if string(payload.Data) != "movie-bytes" {
			t.Errorf("取得結果が違います: %q", payload.Data)
		}
		if payload.MIMEType != "" {
			t.Errorf("メディアでない内容に MIME タイプが付いています: %q", payload.MIMEType)
		}
	})

	t.Run("200以外はエラーになり本文がエラーに含まれること", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "Requested entity was not found.", http.StatusNotFound)
		}))
		defer srv.Close()

		_, err := newTestFetcher(srv, "k").Fetch(context.Background(), srv.URL)
		if err == nil {
			t.Fatal("エラーが発生しませんでした")
		}
		if !strings.Contains(err.Error(), "Requested entity was not found") {
			t.Errorf("本文がエラーに含まれていません: %v", err)
		}
	})

	t.Run("上限サイズを超えるとエラーになること", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("0123456789"))
		}))
		defer srv.Close()

		f := newTestFetcher(srv, "k")
		f.maxBytes = 4
		if _, err := f.Fetch(context.Background(), srv.URL); err == nil {
			t.Error("上限超過でエラーが発生しませんでした")
		}
	})
}

func TestMediaFetcher_SharedFetchSurvivesCallerCancel(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{}, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		started <- struct{}{}
		<-release
		w.Write([]byte("shared-bytes"))
	}))
	defer srv.Close()
	f := newTestFetcher(srv, "k")

	firstCtx, cancelFirst := context.WithCancel(context.Background())
	firstErr := make(chan error, 1)
	go func() {
		_, err := f.Fetch(firstCtx, srv.URL)
		firstErr <- err
	}()
	<-started

	var (
		wg     sync.WaitGroup
		second MediaPayload
		err2   error
	)
	wg.Add(1)
	go func() {
		defer wg.Done()
		second, err2 = f.Fetch(context.Background(), srv.URL)
	}()

	// 最初の呼び出し元だけがキャンセルしても、共有中の取得は続くこと
	cancelFirst()
	if err := <-firstErr; !errors.Is(err, context.Canceled) {
		t.Errorf("キャンセルした呼び出し元に context.Canceled が返りませんでした: %v", err)
	}
	close(release)
	wg.Wait()

	if err2 != nil {
		t.Fatalf("残りの呼び出し元の取得が失敗しました: %v", err2)
	}
	if string(second.Data) != "shared-bytes" {
		t.Errorf("取得結果が違います: %q", second.Data)
	}
}
