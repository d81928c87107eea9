package formula

import (
	"fmt"
	"strconv"
	"strings"
)

type nodeType int

const (
	litNode nodeType = iota + 1
	nNode
	unaryNode
	binaryNode
	condNode
)

type opType int

const (
	opNot opType = iota + 1
	opNeg
	opMul
	opDiv
	opMod
	opAdd
	opSub
	opLt
	opLte
	opGt
	opGte
	opEq
	opNeq
	opAnd
	opOr
)

type node struct {
	Type nodeType
	Op   opType
	X    *node
	Y    *node
	Z    *node
	Val  int
}

// Program is a compiled plural expression.
type Program struct {
	root *node
	src  string
}

// Compile takes a plural formula (e.g. n == 1 ? 0 : 1) and returns
// the corresponding program. If the formula can't be parsed, an error
// is returned.
func Compile(formula string) (*Program, error) {
	p := &parser{src: formula}
	if err := p.next(); err != nil {
		return nil, err
	}
	root, err := p.parseCond()
	if err != nil {
		return nil, err
	}
	if p.tok.kind != tokEOF {
		return nil, p.unexpected()
	}
	return &Program{root: root, src: strings.TrimSpace(formula)}, nil
}

// Eval evaluates the program for n. Division or modulo by zero evaluate to 0.
func (p *Program) Eval(n int) int {
	return eval(p.root, n)
}

// Formula returns a function evaluating the program. Well known formulas
// are mapped to native implementations.
func (p *Program) Formula() Formula {
	if fn := formulasTable[normalize(p.src)]; fn != nil {
		return fn
	}
	return p.Eval
}

func (p *Program) String() string {
	return p.src
}

func b2i(b bool) int {
	if b {
		return 1
	}
	return 0
}

func eval(v *node, n int) int {
	switch v.Type {
	case litNode:
		return v.Val
	case nNode:
		return n
	case unaryNode:
		x := eval(v.X, n)
		if v.Op == opNot {
			return b2i(x == 0)
		}
		return -x
	case condNode:
		if eval(v.X, n) != 0 {
			return eval(v.Y, n)
		}
		return eval(v.Z, n)
	case binaryNode:
		switch v.Op {
		case opAnd:
			return b2i(eval(v.X, n) != 0 && eval(v.Y, n) != 0)
		case opOr:
			return b2i(eval(v.X, n) != 0 || eval(v.Y, n) != 0)
		}
		x := eval(v.X, n)
		y := eval(v.Y, n)
		switch v.Op {
		case opMul:
			return x * y
		case opDiv:
			if y == 0 {
				return 0
			}
			return x / y
		case opMod:
			if y == 0 {
				return 0
			}
			return x % y
		case opAdd:
			return x + y
		case opSub:
			return x - y
		case opLt:
			return b2i(x < y)
		case opLte:
			return b2i(x <= y)
		case opGt:
			return b2i(x > y)
		case opGte:
			return b2i(x >= y)
		case opEq:
			return b2i(x == y)
		case opNeq:
			return b2i(x != y)
		}
	}
	panic("unreachable")
}

type tokKind int

const (
	tokEOF tokKind = iota
	tokInt
	tokN
	tokOp
	tokLParen
	tokRParen
	tokQuestion
	tokColon
)

type token struct {
	kind tokKind
	text string
	pos  int
	val  int
}

// parser is a precedence climbing parser for the C subset allowed
// in plural formulas.
type parser struct {
	src string
	pos int
	tok token
}

func (p *parser) errorf(format string, args ...interface{}) error {
	return fmt.Errorf("error parsing plural formula %q at offset %d: %s", p.src, p.tok.pos, fmt.Sprintf(format, args...))
}

func (p *parser) unexpected() error {
	if p.tok.kind == tokEOF {
		return p.errorf("unexpected end of formula")
	}
	return p.errorf("unexpected %q", p.tok.text)
}

func (p *parser) next() error {
	for p.pos < len(p.src) && strings.IndexByte(" \t\r\n", p.src[p.pos]) >= 0 {
		p.pos++
	}
	start := p.pos
	if p.pos >= len(p.src) {
		p.tok = token{kind: tokEOF, pos: start}
		return nil
	}
	c := p.src[p.pos]
	switch {
	case c >= '0' && c <= '9':
		for p.pos < len(p.src) && p.src[p.pos] >= '0' && p.src[p.pos] <= '9' {
			p.pos++
		}
		text := p.src[start:p.pos]
		v, err := strconv.Atoi(text)
		if err != nil {
			p.tok = token{pos: start, text: text}
			return p.errorf("invalid integer %q", text)
		}
		p.tok = token{kind: tokInt, text: text, pos: start, val: v}
		return nil
	case c == 'n':
		p.pos++
		if p.pos < len(p.src) && isIdent(p.src[p.pos]) {
			for p.pos < len(p.src) && isIdent(p.src[p.pos]) {
				p.pos++
			}
			p.tok = token{pos: start, text: p.src[start:p.pos]}
			return p.errorf("invalid ident in formula: %q", p.tok.text)
		}
		p.tok = token{kind: tokN, text: "n", pos: start}
		return nil
	case c == '(':
		p.pos++
		p.tok = token{kind: tokLParen, text: "(", pos: start}
		return nil
	case c == ')':
		p.pos++
		p.tok = token{kind: tokRParen, text: ")", pos: start}
		return nil
	case c == '?':
		p.pos++
		p.tok = token{kind: tokQuestion, text: "?", pos: start}
		return nil
	case c == ':':
		p.pos++
		p.tok = token{kind: tokColon, text: ":", pos: start}
		return nil
	}
	if p.pos+1 < len(p.src) {
		switch two := p.src[p.pos : p.pos+2]; two {
		case "==", "!=", "<=", ">=", "&&", "||":
			p.pos += 2
			p.tok = token{kind: tokOp, text: two, pos: start}
			return nil
		}
	}
	if strings.IndexByte("!<>*/%+-", c) >= 0 {
		p.pos++
		p.tok = token{kind: tokOp, text: string(c), pos: start}
		return nil
	}
	p.tok = token{pos: start, text: string(c)}
	if isIdent(c) {
		return p.errorf("invalid ident in formula: %q", string(c))
	}
	return p.errorf("invalid character %q", string(c))
}

func isIdent(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}

// binary operator precedence levels, lowest first.
var levels = [][]string{
	{"||"},
	{"&&"},
	{"==", "!="},
	{"<", "<=", ">", ">="},
	{"+", "-"},
	{"*", "/", "%"},
}

var binaryOps = map[string]opType{
	"||": opOr, "&&": opAnd, "==": opEq, "!=": opNeq,
	"<": opLt, "<=": opLte, ">": opGt, ">=": opGte,
	"+": opAdd, "-": opSub, "*": opMul, "/": opDiv, "%": opMod,
}

func (p *parser) parseCond() (*node, error) {
	cond, err := p.parseBinary(0)
	if err != nil {
		return nil, err
	}
	if p.tok.kind != tokQuestion {
		return cond, nil
	}
	if err := p.next(); err != nil {
		return nil, err
	}
	yes, err := p.parseCond()
	if err != nil {
		return nil, err
	}
	if p.tok.kind != tokColon {
		return nil, p.unexpected()
	}
	if err := p.next(); err != nil {
		return nil, err
	}
	no, err := p.parseCond()
	if err != nil {
		return nil, err
	}
	return &node{Type: condNode, X: cond, Y: yes, Z: no}, nil
}

func (p *parser) parseBinary(level int) (*node, error) {
	if level == len(levels) {
		return p.parseUnary()
	}
	x, err := p.parseBinary(level + 1)
	if err != nil {
		return nil, err
	}
	for p.tok.kind == tokOp && contains(levels[level], p.tok.text) {
		op := binaryOps[p.tok.text]
		if err := p.next(); err != nil {
			return nil, err
		}
		y, err := p.parseBinary(level + 1)
		if err != nil {
			return nil, err
		}
		x = &node{Type: binaryNode, Op: op, X: x, Y: y}
	}
	return x, nil
}

func (p *parser) parseUnary() (*node, error) {
	if p.tok.kind == tokOp && (p.tok.text == "!" || p.tok.text == "-") {
		op := opNot
		if p.tok.text == "-" {
			op = opNeg
		}
		if err := p.next(); err != nil {
			return nil, err
		}
		x, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &node{Type: unaryNode, Op: op, X: x}, nil
	}
	return p.parsePrimary()
}

func (p *parser) parsePrimary() (*node, error) {
	switch p.tok.kind {
	case tokInt:
		v := p.tok.val
		return &node{Type: litNode, Val: v}, p.next()
	case tokN:
		return &node{Type: nNode}, p.next()
	case tokLParen:
		if err := p.next(); err != nil {
			return nil, err
		}
		x, err := p.parseCond()
		if err != nil {
			return nil, err
		}
		if p.tok.kind != tokRParen {
			return nil, p.unexpected()
		}
		return x, p.next()
	}
	return nil, p.unexpected()
}

func contains(ops []string, op string) bool {
	for _, v := range ops {
		if v == op {
			return true
		}
	}
	return false
}
