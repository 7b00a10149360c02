package scan

import "testing"

func TestScanIdentifiersKeywordsAndOperators(t *testing.T) {
	s := New(`var x = 2 + 3; // comment
x += 1;`)
	var got []Token
	for {
		tok := s.Next()
		got = append(got, tok)
		if tok.Kind == EOF {
			break
		}
	}

	want := []struct {
		kind Kind
		lit  string
	}{
		{Keyword, "var"}, {Ident, "x"}, {Op, "="}, {Int, "2"}, {Op, "+"}, {Int, "3"}, {Punct, ";"},
		{Ident, "x"}, {Op, "+="}, {Int, "1"}, {Punct, ";"}, {EOF, ""},
	}
	if len(got) != len(want) {
		t.Fatalf("got %d tokens, want %d: %+v", len(got), len(want), got)
	}
	for i, w := range want {
		if got[i].Kind != w.kind || got[i].Literal != w.lit {
			t.Fatalf("token %d = %+v, want {%v %q}", i, got[i], w.kind, w.lit)
		}
	}
}

func TestScanStringLiteralWithEscapes(t *testing.T) {
	s := New(`"hello\nworld"`)
	tok := s.Next()
	if tok.Kind != String || tok.Literal != "hello\nworld" {
		t.Fatalf("got %+v", tok)
	}
}

func TestScanTracksLineAndColumn(t *testing.T) {
	s := New("var\nx")
	first := s.Next()
	if first.Pos.Line != 1 {
		t.Fatalf("expected first token on line 1, got %d", first.Pos.Line)
	}
	second := s.Next()
	if second.Pos.Line != 2 {
		t.Fatalf("expected second token on line 2, got %d", second.Pos.Line)
	}
}

func TestScanTwoCharOperatorsNotSplit(t *testing.T) {
	s := New("a == b")
	s.Next()
	tok := s.Next()
	if tok.Kind != Op || tok.Literal != "==" {
		t.Fatalf("expected '==' as one operator token, got %+v", tok)
	}
}
