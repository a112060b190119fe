package usecases

import (
	"context"
	"fmt"

	"haneul/internal/application/reconciliation/dto"
	"haneul/internal/domain/catalog"
	apperrors "haneul/internal/shared/errors"
	"haneul/internal/shared/logger"
)

type ClassifyItemsQuery struct {
	ItemLabels []string
	FamilyHint string
}

// ClassifyItemsUseCase suggests a catalog classification for each submitted
// billing item name. The suggestion pre-fills the deduction form; staff can
// still override it, so an unmatched item is a result, not an error.
type ClassifyItemsUseCase struct {
	catalogSource CatalogSource
	logger        logger.Interface
}

func NewClassifyItemsUseCase(
	catalogSource CatalogSource,
	logger logger.Interface,
) *ClassifyItemsUseCase {
	return &ClassifyItemsUseCase{
		catalogSource: catalogSource,
		logger:        logger,
	}
}

func (uc *ClassifyItemsUseCase) Execute(ctx context.Context, q ClassifyItemsQuery) ([]*dto.ClassificationDTO, error) {
	if len(q.ItemLabels) == 0 {
		return nil, apperrors.NewValidationError("at least one item label is required")
	}

	var family catalog.Family
	if q.FamilyHint != "" {
		family = catalog.Family(q.FamilyHint)
		if !family.IsValid() {
			return nil, apperrors.NewValidationError(fmt.Sprintf("invalid catalog family: %s", q.FamilyHint))
		}
	}

	types, err := uc.catalogSource.GetTypes(ctx)
	if err != nil {
		uc.logger.Errorw("failed to load catalog types", "error", err)
		return nil, fmt.Errorf("failed to load catalog types: %w", err)
	}
	matcher := catalog.NewMatcher(types)

	results := make([]*dto.ClassificationDTO, 0, len(q.ItemLabels))
	for _, label := range q.ItemLabels {
		var matched []*catalog.Type
		if family != "" {
			matched = matcher.MatchAllInFamily(label, family)
		} else {
			matched = matcher.MatchAll(label)
		}

		c := &dto.ClassificationDTO{ItemLabel: label, DeductionWeight: 1}
		for _, t := range matched {
			c.Matches = append(c.Matches, &dto.CatalogMatchDTO{
				Family:          t.Family().String(),
				CatalogName:     t.Name(),
				DeductionWeight: t.DeductionWeight(),
			})
		}
		if len(matched) > 0 {
			c.Matched = true
			c.Family = matched[0].Family().String()
			c.CatalogName = matched[0].Name()
			c.DeductionWeight = matched[0].DeductionWeight()
		}
		results = append(results, c)
	}

	return results, nil
}

// ListCatalogUseCase returns the catalog rows, optionally one family.
type ListCatalogUseCase struct {
	catalogRepo catalog.Repository
	logger      logger.Interface
}

func NewListCatalogUseCase(
	catalogRepo catalog.Repository,
	logger logger.Interface,
) *ListCatalogUseCase {
	return &ListCatalogUseCase{
		catalogRepo: catalogRepo,
		logger:      logger,
	}
}

func (uc *ListCatalogUseCase) Execute(ctx context.Context, familyHint string) ([]*dto.CatalogTypeDTO, error) {
	if familyHint == "" {
		types, err := uc.catalogRepo.ListAll(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list catalog types: %w", err)
		}
		return dto.ToCatalogTypeDTOList(types), nil
	}

	family := catalog.Family(familyHint)
	if !family.IsValid() {
		return nil, apperrors.NewValidationError(fmt.Sprintf("invalid catalog family: %s", familyHint))
	}
	types, err := uc.catalogRepo.ListByFamily(ctx, family)
	if err != nil {
		return nil, fmt.Errorf("failed to list catalog types: %w", err)
	}
	return dto.ToCatalogTypeDTOList(types), nil
}
