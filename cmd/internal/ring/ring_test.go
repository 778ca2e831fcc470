package ring

import (
	"reflect"
	"testing"
)

var logTests = []struct {
	name string
	ops  func() any
	want any
}{
	{
		name: "new_3",
		ops: func() any {
			return NewLog[string](3)
		},
		want: &Log[string]{data: make([]string, 3)},
	},
	{
		name: "new_3_push_2",
		ops: func() any {
			l := NewLog[string](3)
			l.Push("a")
			l.Push("b")
			return []any{l.Len(), l.Items()}
		},
		want: []any{2, []string{"b", "a"}},
	},
	{
		name: "new_3_push_3",
		ops: func() any {
			l := NewLog[string](3)
			l.Push("a")
			l.Push("b")
			l.Push("c")
			return l
		},
		want: &Log[string]{data: []string{"a", "b", "c"}, next: 0, full: true},
	},
	{
		name: "new_3_push_5",
		ops: func() any {
			l := NewLog[string](3)
			for _, v := range []string{"a", "b", "c", "d", "e"} {
				l.Push(v)
			}
			return []any{l.Len(), l.Items()}
		},
		want: []any{3, []string{"e", "d", "c"}},
	},
	{
		name: "new_0_push",
		ops: func() any {
			l := NewLog[int](0)
			l.Push(1)
			return []any{l.Len(), l.Items()}
		},
		want: []any{0, []int{}},
	},
}

func TestLog(t *testing.T) {
	for _, test := range logTests {
		t.Run(test.name, func(t *testing.T) {
			got := test.ops()
			if !reflect.DeepEqual(got, test.want) {
				t.Errorf("expected result:\ngot: %#v\nwant:%#v", got, test.want)
			}
		})
	}
}
