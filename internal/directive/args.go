package directive

import (
	"fmt"
	"go/scanner"
	"go/token"
	"regexp"
	"strconv"
	"strings"
)

// nameRE matches a GraphQL name.
var nameRE = regexp.MustCompile(`^[_A-Za-z][_0-9A-Za-z]*$`)

type lexeme struct {
	tok token.Token
	lit string
}

// parseLine parses a single "//gql:kind args..." comment.
func parseLine(pos token.Position, text string) (*Directive, error) {
	body := strings.TrimPrefix(text, Prefix)
	kindText, rest := body, ""
	if i := strings.IndexAny(body, " \t"); i >= 0 {
		kindText, rest = body[:i], body[i+1:]
	}
	kind := Kind(kindText)
	if !kinds[kind] {
		return nil, &Error{Pos: pos, Msg: fmt.Sprintf("unknown directive %s%s", Prefix, kindText)}
	}

	d := &Directive{Kind: kind, Pos: pos}
	lexemes, err := lex(rest)
	if err != nil {
		return nil, &Error{Pos: pos, Msg: fmt.Sprintf("%s: %v", d, err)}
	}

	var positional []string
	for i := 0; i < len(lexemes); i++ {
		lx := lexemes[i]
		switch {
		case lx.tok == token.STRING:
			s, err := strconv.Unquote(lx.lit)
			if err != nil {
				return nil, &Error{Pos: pos, Msg: fmt.Sprintf("%s: bad string %s", d, lx.lit)}
			}
			positional = append(positional, s)

		case isWord(lx):
			if i+1 < len(lexemes) && lexemes[i+1].tok == token.ASSIGN {
				if i+2 >= len(lexemes) {
					return nil, &Error{Pos: pos, Msg: fmt.Sprintf("%s: option %s has no value", d, lx.lit)}
				}
				value := lexemes[i+2]
				if err := d.setOption(lx.lit, value); err != nil {
					return nil, &Error{Pos: pos, Msg: err.Error()}
				}
				i += 2
				continue
			}
			positional = append(positional, lx.lit)

		default:
			return nil, &Error{Pos: pos, Msg: fmt.Sprintf("%s: unexpected %q", d, lexemeText(lx))}
		}
	}

	if kind == KindArg {
		if len(positional) == 0 {
			return nil, &Error{Pos: pos, Msg: fmt.Sprintf("%s requires a parameter name", d)}
		}
		d.Param, positional = positional[0], positional[1:]
	}
	if len(positional) > 1 {
		return nil, &Error{Pos: pos, Msg: fmt.Sprintf("%s takes at most one name, got %d", d, len(positional))}
	}
	if len(positional) == 1 {
		if !nameRE.MatchString(positional[0]) {
			return nil, &Error{Pos: pos, Msg: fmt.Sprintf("%s: custom name %q must be a valid GraphQL name", d, positional[0])}
		}
		d.Name = positional[0]
	}
	return d, nil
}

func (d *Directive) setOption(key string, value lexeme) error {
	switch key {
	case "scalar":
		if !isWord(value) {
			return fmt.Errorf("%s: scalar override must be a bare identifier, got %s", d, lexemeText(value))
		}
		if d.Scalar != "" {
			return fmt.Errorf("%s: scalar override given twice", d)
		}
		d.Scalar = value.lit
		return nil
	default:
		return fmt.Errorf("%s: unknown option %q", d, key)
	}
}

// lex splits directive arguments into Go tokens.
func lex(src string) ([]lexeme, error) {
	fset := token.NewFileSet()
	file := fset.AddFile("", fset.Base(), len(src))

	var errs scanner.ErrorList
	var s scanner.Scanner
	s.Init(file, []byte(src), func(pos token.Position, msg string) {
		errs.Add(pos, msg)
	}, 0)

	var out []lexeme
	for {
		_, tok, lit := s.Scan()
		if tok == token.EOF {
			break
		}
		// Automatic semicolon at end of input.
		if tok == token.SEMICOLON && lit == "\n" {
			continue
		}
		out = append(out, lexeme{tok: tok, lit: lit})
	}
	if err := errs.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// isWord reports whether lx is an identifier. Keywords count, so a field
// may be named "type".
func isWord(lx lexeme) bool {
	return lx.tok == token.IDENT || lx.tok.IsKeyword()
}

func lexemeText(lx lexeme) string {
	if lx.lit != "" {
		return lx.lit
	}
	return lx.tok.String()
}
