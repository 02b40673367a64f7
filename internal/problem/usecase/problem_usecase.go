package usecase

import (
	"strings"

	problemdomain "cpsheet-backend/internal/problem/domain"
	problemdto "cpsheet-backend/internal/problem/dto"
	"cpsheet-backend/internal/problem/repository"
	"cpsheet-backend/pkg/apperror"
)

var ErrProblemNotFound = apperror.NotFound("problem not found")

type ProblemUsecase interface {
	Add(userID string, req *problemdto.CreateProblemRequest) (*problemdomain.Problem, error)
	List(userID string, favouritesOnly bool) ([]*problemdomain.Problem, error)
	Update(userID, id string, req *problemdto.UpdateProblemRequest) (*problemdomain.Problem, error)
	Delete(userID, id string) error
	ToggleFavourite(userID, id string) (*problemdomain.Problem, error)
}

type problemUsecase struct {
	problemRepo repository.ProblemRepository
}

func NewProblemUsecase(problemRepo repository.ProblemRepository) ProblemUsecase {
	return &problemUsecase{
		problemRepo: problemRepo,
	}
}

func (u *problemUsecase) Add(userID string, req *problemdto.CreateProblemRequest) (*problemdomain.Problem, error) {
	name := strings.TrimSpace(req.Name)
	link := strings.TrimSpace(req.Link)
	if name == "" || link == "" {
		return nil, apperror.Validation("problem name and link are required")
	}

	tags := req.Tags
	if tags == nil {
		tags = []string{}
	}

	problem := &problemdomain.Problem{
		UserID: userID,
		Name:   name,
		Link:   link,
		Tags:   tags,
	}
	if err := u.problemRepo.Create(problem); err != nil {
		return nil, err
	}
	return problem, nil
}

func (u *problemUsecase) List(userID string, favouritesOnly bool) ([]*problemdomain.Problem, error) {
	return u.problemRepo.FindByUser(userID, favouritesOnly)
}

func (u *problemUsecase) Update(userID, id string, req *problemdto.UpdateProblemRequest) (*problemdomain.Problem, error) {
	problem, err := u.problemRepo.FindByID(userID, id)
	if err != nil {
		return nil, err
	}
	if problem == nil {
		return nil, ErrProblemNotFound
	}

	if name := strings.TrimSpace(req.Name); name != "" {
		problem.Name = name
	}
	if link := strings.TrimSpace(req.Link); link != "" {
		problem.Link = link
	}
	if req.Tags != nil {
		problem.Tags = req.Tags
	}

	if err := u.problemRepo.Update(problem); err != nil {
		return nil, err
	}
	return problem, nil
}

func (u *problemUsecase) Delete(userID, id string) error {
	deleted, err := u.problemRepo.Delete(userID, id)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrProblemNotFound
	}
	return nil
}

func (u *problemUsecase) ToggleFavourite(userID, id string) (*problemdomain.Problem, error) {
	problem, err := u.problemRepo.FindByID(userID, id)
	if err != nil {
		return nil, err
	}
	if problem == nil {
		return nil, ErrProblemNotFound
	}

	problem.IsFavourite = !problem.IsFavourite
	if err := u.problemRepo.Update(problem); err != nil {
		return nil, err
	}
	return problem, nil
}
