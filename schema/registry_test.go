// Copyright 2019 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package schema

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/wireproto/protocore/internal/werrors"
)

func TestRegistryLoadCachesAndDeduplicates(t *testing.T) {
	reg := NewRegistry()
	var calls int32
	loader := func(path string) (*Root, error) {
		atomic.AddInt32(&calls, 1)
		root := NewRoot()
		msg := NewType("M", nil)
		if err := msg.AddField(NewField("a", 1, "int32", Optional, nil)); err != nil {
			return nil, err
		}
		if err := root.Add(msg); err != nil {
			return nil, err
		}
		return root, nil
	}

	var wg sync.WaitGroup
	roots := make([]*Root, 8)
	for i := range roots {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			root, errs, err := reg.Load("schema.json", loader)
			if err != nil {
				t.Errorf("Load: %v", err)
				return
			}
			if len(errs) != 0 {
				t.Errorf("Load seal errs: %v", errs)
			}
			roots[i] = root
		}(i)
	}
	wg.Wait()

	for i, r := range roots {
		if r != roots[0] {
			t.Fatalf("roots[%d] = %p, want roots[0] = %p (same cached Root)", i, r, roots[0])
		}
	}
	if got := atomic.LoadInt32(&calls); got != 1 {
		t.Fatalf("loader called %d times, want exactly 1", got)
	}

	reg.Forget("schema.json")
	if _, _, err := reg.Load("schema.json", loader); err != nil {
		t.Fatalf("Load after Forget: %v", err)
	}
	if got := atomic.LoadInt32(&calls); got != 2 {
		t.Fatalf("loader called %d times after Forget+Load, want 2", got)
	}
}

func TestRegistryLoadErrorNotCached(t *testing.T) {
	reg := NewRegistry()
	attempt := 0
	loader := func(path string) (*Root, error) {
		attempt++
		if attempt == 1 {
			return nil, werrors.NewResolve("simulated load failure")
		}
		return NewRoot(), nil
	}
	if _, _, err := reg.Load("bad.json", loader); err == nil {
		t.Fatalf("Load(failing loader) = nil error, want error")
	}
	if _, _, err := reg.Load("bad.json", loader); err != nil {
		t.Fatalf("Load(retry after failure): %v", err)
	}
}
