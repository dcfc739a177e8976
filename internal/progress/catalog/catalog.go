// Package catalog: 알려진 미니게임 목록(인덱스, 종류, 스테이지 수)과 사이클 시작 점수를 제공한다.
package catalog

import (
	"fmt"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	cerrors "github.com/park285/stellar-mind-go/internal/common/errors"
	"github.com/park285/stellar-mind-go/internal/progress/assets"
	"github.com/park285/stellar-mind-go/internal/progress/model"
)

type gameEntry struct {
	Index      int    `yaml:"index"`
	Kind       string `yaml:"kind"`
	Name       string `yaml:"name"`
	StageCount int    `yaml:"stageCount"`
}

type document struct {
	StartingScore int         `yaml:"startingScore"`
	Games         []gameEntry `yaml:"games"`
}

// Catalog: 검증이 끝난 게임 카탈로그. 생성 후 변경되지 않는다.
type Catalog struct {
	startingScore int
	games         []model.GameSpec
	byIndex       map[int]model.GameSpec
}

// Default: 바이너리에 포함된 카탈로그를 읽는다.
func Default() (*Catalog, error) {
	return Parse(assets.GamesYAML)
}

// MustDefault 는 Default와 같지만 실패 시 panic한다. 내장 카탈로그가 깨졌다면 빌드 결함이다.
func MustDefault() *Catalog {
	c, err := Default()
	if err != nil {
		panic(err)
	}
	return c
}

// Parse: YAML 카탈로그를 파싱하고 검증한다. 모르는 종류나 중복 인덱스는 InvariantViolation이다.
func Parse(content string) (*Catalog, error) {
	var doc document
	if err := yaml.Unmarshal([]byte(content), &doc); err != nil {
		return nil, fmt.Errorf("parse catalog yaml: %w", err)
	}
	if len(doc.Games) == 0 {
		return nil, cerrors.NewInvariantViolation("load_catalog", "catalog has no games")
	}

	specs := make([]model.GameSpec, 0, len(doc.Games))
	for _, entry := range doc.Games {
		kind, err := model.ParseKind(entry.Kind)
		if err != nil {
			return nil, cerrors.NewInvariantViolation("load_catalog", "game %d: %v", entry.Index, err)
		}
		if entry.Index < 0 {
			return nil, cerrors.NewInvariantViolation("load_catalog", "negative game index %d", entry.Index)
		}
		stageCount := entry.StageCount
		if stageCount == 0 {
			stageCount = model.DefaultStageCount
		}
		if stageCount < 0 {
			return nil, cerrors.NewInvariantViolation("load_catalog", "game %d: stage count %d", entry.Index, stageCount)
		}
		specs = append(specs, model.GameSpec{
			Index:      entry.Index,
			Kind:       kind,
			Name:       strings.TrimSpace(entry.Name),
			StageCount: stageCount,
		})
	}
	return New(doc.StartingScore, specs)
}

// New: 코드에서 직접 카탈로그를 구성한다.
func New(startingScore int, specs []model.GameSpec) (*Catalog, error) {
	c := &Catalog{
		startingScore: startingScore,
		byIndex:       make(map[int]model.GameSpec, len(specs)),
	}
	for _, spec := range specs {
		if _, dup := c.byIndex[spec.Index]; dup {
			return nil, cerrors.NewInvariantViolation("load_catalog", "duplicate game index %d", spec.Index)
		}
		if !spec.Kind.Valid() {
			return nil, cerrors.NewInvariantViolation("load_catalog", "game %d has unknown kind %q", spec.Index, spec.Kind)
		}
		if spec.StageCount <= 0 {
			spec.StageCount = model.DefaultStageCount
		}
		c.byIndex[spec.Index] = spec
		c.games = append(c.games, spec)
	}
	slices.SortFunc(c.games, func(a, b model.GameSpec) int { return a.Index - b.Index })
	return c, nil
}

// StartingScore: 사이클 시작 시 총점
func (c *Catalog) StartingScore() int { return c.startingScore }

// Games: 인덱스 오름차순의 게임 정의 사본
func (c *Catalog) Games() []model.GameSpec {
	return slices.Clone(c.games)
}

// Lookup 는 인덱스로 게임 정의를 찾는다.
func (c *Catalog) Lookup(index int) (model.GameSpec, bool) {
	spec, ok := c.byIndex[index]
	return spec, ok
}
