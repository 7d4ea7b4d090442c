package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/google/safeopen"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/benz9527/xtree/lib/tree"
	"github.com/benz9527/xtree/observability"
	"github.com/benz9527/xtree/xlog"
)

type opKind uint8

const (
	opInsert opKind = iota
	opErase
	opFind
)

func (k opKind) String() string {
	switch k {
	case opErase:
		return "erase"
	case opFind:
		return "find"
	default:
	}
	return "insert"
}

type treeOp struct {
	kind opKind
	val  int
	// Input line the token was read from, counted from 1.
	line int
}

type SessionErr string

func (err SessionErr) Error() string {
	return string(err)
}

const (
	ErrUnknownTreeKind  SessionErr = "[xtree] unknown tree kind"
	ErrInvalidToken     SessionErr = "[xtree] invalid token"
	ErrMetricsNeedWatch SessionErr = "[xtree] prometheus metrics are served by the watch command only"
)

/*
parseOps reads whitespace separated tokens, '#' starts a comment
running to the end of the line.

	12 or +12   insert 12
	-12         erase 12
	?12         find 12

A bad token is reported and skipped, the rest are still returned.
*/
func parseOps(input string) ([]treeOp, error) {
	var merr error
	ops := make([]treeOp, 0, 32)
	scanner := bufio.NewScanner(strings.NewReader(input))
	for lineNo := 1; scanner.Scan(); lineNo++ {
		line, _, _ := strings.Cut(scanner.Text(), "#")
		for _, tok := range strings.Fields(line) {
			kind, num := opInsert, tok
			switch tok[0] {
			case '+':
				num = tok[1:]
			case '-':
				kind, num = opErase, tok[1:]
			case '?':
				kind, num = opFind, tok[1:]
			}
			v, err := strconv.Atoi(num)
			if err != nil {
				merr = multierr.Append(merr, fmt.Errorf("%w %q at line %d: %w", ErrInvalidToken, tok, lineNo, err))
				continue
			}
			ops = append(ops, treeOp{kind: kind, val: v, line: lineNo})
		}
	}
	return ops, multierr.Append(merr, scanner.Err())
}

// splitLastBatch cuts off the operations of the last input line that
// holds any, the batch shown as "after" in a comparison.
func splitLastBatch(ops []treeOp) (base, last []treeOp) {
	if len(ops) == 0 {
		return nil, nil
	}
	i := len(ops) - 1
	for i > 0 && ops[i-1].line == ops[len(ops)-1].line {
		i--
	}
	return ops[:i], ops[i:]
}

func newTree(kind string) (tree.OrderedTree[int], error) {
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case "avl":
		return tree.NewAVLTree[int](), nil
	case "bst":
		return tree.NewBST[int](), nil
	default:
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownTreeKind, kind)
}

type rotationCounter interface {
	Rotations() uint64
}

// session owns one tree and applies the parsed operations to it.
type session struct {
	tree   tree.OrderedTree[int]
	logger xlog.XLogger
	stats  *observability.TreeStats
}

func newSession(kind string, logger xlog.XLogger, stats *observability.TreeStats) (*session, error) {
	t, err := newTree(kind)
	if err != nil {
		return nil, err
	}
	return &session{
		tree:   t,
		logger: logger.Named("session"),
		stats:  stats,
	}, nil
}

func (s *session) rotations() uint64 {
	if rc, ok := s.tree.(rotationCounter); ok {
		return rc.Rotations()
	}
	return 0
}

// apply returns false for a duplicate insert, an absent erase or a
// find miss.
func (s *session) apply(ctx context.Context, op treeOp) bool {
	before := s.rotations()
	hit := false
	switch op.kind {
	case opInsert:
		n := s.tree.Len()
		s.tree.Insert(op.val)
		hit = s.tree.Len() > n
		s.stats.RecordInsert(ctx, hit)
	case opErase:
		hit = s.tree.Erase(op.val)
		s.stats.RecordErase(ctx, hit)
	case opFind:
		hit = s.tree.Find(op.val)
		s.stats.RecordFind(ctx, hit)
	}
	rotations := s.rotations() - before
	s.stats.RecordRotations(ctx, rotations)
	s.stats.ObserveShape(s.tree.Height(), int(s.tree.Len()))
	s.logger.Debug("apply",
		zap.String("op", op.kind.String()),
		zap.Int("value", op.val),
		zap.Bool("hit", hit),
		zap.Uint64("rotations", rotations),
		zap.Int("height", s.tree.Height()),
	)
	return hit
}

// run applies every valid token of input. The returned error holds the
// rejected tokens, or the context error if run was interrupted.
func (s *session) run(ctx context.Context, input string) error {
	ops, err := s.parse(input)
	return multierr.Append(err, s.runOps(ctx, ops))
}

func (s *session) parse(input string) ([]treeOp, error) {
	ops, err := parseOps(input)
	if err != nil {
		for _, e := range multierr.Errors(err) {
			s.logger.Warn("skip token", zap.String("reason", e.Error()))
		}
	}
	return ops, err
}

func (s *session) runOps(ctx context.Context, ops []treeOp) error {
	for _, op := range ops {
		if err := ctx.Err(); err != nil {
			return err
		}
		s.apply(ctx, op)
	}
	s.stats.ObserveShape(s.tree.Height(), int(s.tree.Len()))
	s.logger.Info("applied",
		zap.Int("ops", len(ops)),
		zap.Int64("nodes", s.tree.Len()),
		zap.Int("height", s.tree.Height()),
	)
	return nil
}

// release frees the nodes. The shape gauges keep the last snapshot
// until another session replaces the tree.
func (s *session) release() {
	s.tree.Release()
}

// readOpsFile opens the file beneath its own directory, so a symlink
// cannot lead the read outside of it.
func readOpsFile(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	dir, name := filepath.Split(abs)
	f, err := safeopen.OpenBeneath(dir, name)
	if err != nil {
		return "", err
	}
	data, err := io.ReadAll(f)
	return string(data), multierr.Append(err, f.Close())
}
