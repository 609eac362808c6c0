package service

import (
	"postboard/internal/auth"
	"postboard/internal/ingest"
	"postboard/internal/repository"
	"postboard/internal/storage"
)

type Service struct {
	Post PostService
}

func NewService(rep *repository.Repository, storage storage.Store, gate auth.Gate) *Service {
	return &Service{
		Post: NewPostService(rep.Post, storage, ingest.New(), gate),
	}
}
