package game

import (
	"fmt"

	"github.com/talgya/green-world/internal/catalog"
)

// ExtractGene consumes a grown, gene-bearing plant and adds one gene unit for
// its plant kind. Plots that are empty, ungrown, or geneless are silent
// no-ops.
func (s *Session) ExtractGene(plotID int) error {
	plot := s.state.plot(plotID)
	if plot == nil || plot.Plant == nil || !plot.Plant.Grown {
		return nil
	}
	info := s.catalog.Plant(plot.Plant.Kind)
	if info.Gene == "" {
		return nil
	}

	kind := plot.Plant.Kind
	plot.Plant = nil
	s.state.Genes[kind]++
	s.messages.Push(fmt.Sprintf("%s%sの遺伝子(%s)を抽出しました！", info.Glyph, info.Name, info.Gene))
	return nil
}

// CombineGenes looks up the recipe for the ordered donor pair and, given
// enough gene stock, produces one hybrid seed. Self-combination needs two
// units of the single kind.
func (s *Session) CombineGenes(first, second catalog.PlantKind) error {
	result, ok := s.catalog.RecipeFor(first, second)
	if !ok {
		s.messages.Push("この組み合わせでは何も生まれないようです...")
		return fmt.Errorf("%s + %s: %w", first, second, ErrNoRecipe)
	}

	enough := s.state.Genes[first] >= 1 && s.state.Genes[second] >= 1
	if first == second {
		enough = s.state.Genes[first] >= 2
	}
	if !enough {
		s.messages.Push("遺伝子が足りません！")
		return fmt.Errorf("%s + %s: %w", first, second, ErrInsufficientGenes)
	}

	s.state.Genes[first]--
	s.state.Genes[second]--
	s.state.Seeds[result]++

	info := s.catalog.Plant(result)
	s.messages.Push(fmt.Sprintf("遺伝子を合成して %s%s の種ができました！", info.Glyph, info.Name))
	return nil
}
