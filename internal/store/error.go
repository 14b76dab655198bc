package store

import (
	"errors"
	
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

var ErrRecordNotFound = errors.New("record not found")

func wrapNotFound(err error) error {
	if status.Code(err) == codes.NotFound {
		return ErrRecordNotFound
	}
	
	return err
}
