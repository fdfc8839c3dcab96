package errors

import (
	stderrors "errors"
	"fmt"
	"testing"
)

var (
	errA = New("a")
	errB = New("b\nmore")
)

func TestList_Error(t *testing.T) {
	tests := []struct {
		list List
		want string
	}{
		{List{}, "no errors"},
		{List{errA}, "a"},
		{List{errA, errB}, "2 errors:\n\ta\n\tb\n\tmore"},
	}
	for _, test := range tests {
		if s := test.list.Error(); s != test.want {
			t.Errorf("unexpected result from Error: %q", s)
		}
	}
}

func TestList_Is(t *testing.T) {
	list := List{errA, fmt.Errorf("wrapped: %w", errB)}
	if !stderrors.Is(list, errB) {
		t.Error("expected list to match wrapped error")
	}
	if stderrors.Is(List{errA}, errB) {
		t.Error("unexpected match")
	}

	type target struct{ error }
	var tgt target
	if !stderrors.As(List{errA, target{errB}}, &tgt) || tgt.error != errB {
		t.Error("expected As to find error in list")
	}
}

func TestUnion(t *testing.T) {
	if err := Union(nil, List{}, nil); err != nil {
		t.Errorf("expected nil, got %v", err)
	}
	err := Union(errA, nil, List{errB, errA})
	list, ok := err.(List)
	if !ok || len(list) != 3 {
		t.Fatalf("unexpected result from Union: %#v", err)
	}
	if list[0] != errA || list[1] != errB || list[2] != errA {
		t.Error("unexpected order from Union")
	}
}

func TestFlatten(t *testing.T) {
	if Flatten(nil) != nil {
		t.Error("expected nil list")
	}
	if l := Flatten(errA); len(l) != 1 || l[0] != errA {
		t.Errorf("unexpected result from Flatten: %v", l)
	}
	if l := Flatten(List{errA, errB}); len(l) != 2 {
		t.Errorf("unexpected result from Flatten: %v", l)
	}
	if l := (List{}).Append(nil, errA, nil); len(l) != 1 || l.Return() == nil {
		t.Errorf("unexpected result from Append: %v", l)
	}
}
