package store

import (
	"context"
)

func (s *FirestoreStore) GetMatch(ctx context.Context, matchID string) (*Match, error) {
	var match Match
	if err := getDocument(ctx, s.client.Collection(CollectionMatches).Doc(matchID), &match); err != nil {
		return nil, err
	}
	
	match.ID = matchID
	return &match, nil
}

func (s *FirestoreStore) GetCategory(ctx context.Context, categoryID string) (*Category, error) {
	var category Category
	if err := getDocument(ctx, s.client.Collection(CollectionCategories).Doc(categoryID), &category); err != nil {
		return nil, err
	}
	
	category.ID = categoryID
	return &category, nil
}
