// Package clients manages the API clients that act as tenants. Every client
// owns an isolated bundle of quiz/question/attempt stores; the client record
// itself lives in a single global collection.
package clients

import (
	"fmt"
	"time"

	"github.com/globalsign/mgo/bson"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"golang.org/x/crypto/bcrypt"

	"quizservice/src/core/errs"
	"quizservice/src/core/models"
	"quizservice/src/core/store"
	"quizservice/src/utils"
)

const (
	nameMinLength = 1
	nameMaxLength = 50

	// credentialBytes is the entropy of generated client ids and secrets.
	credentialBytes = 20
)

// ErrInvalidCredentials rejects a token request with a wrong client id or
// secret. The message deliberately does not say which of the two was wrong.
var ErrInvalidCredentials = errors.New("The provided 'client_id' or 'client_secret' is incorrect.")

// ErrClientDisabled rejects a token request from a deactivated client.
var ErrClientDisabled = errors.New("This client is deactivated and cannot be authenticated.")

type Service struct {
	store store.Store
}

func NewService(clientStore store.Store) *Service {
	return &Service{store: clientStore}
}

// Credentials is the one-time view of a freshly generated client id/secret
// pair. The secret is never stored and cannot be retrieved again.
type Credentials struct {
	ClientID     string `json:"client_id"`
	ClientSecret string `json:"client_secret"`
}

func validateClientID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return errs.NewValidation("Invalid client ID, it must be a UUID.")
	}
	return nil
}

func validateName(name string) error {
	if len(name) < nameMinLength || len(name) > nameMaxLength {
		return errs.NewValidation(fmt.Sprintf(
			"Invalid 'name', it must be a string between %d and %d characters.",
			nameMinLength, nameMaxLength))
	}
	return nil
}

func generateCredentials() (*Credentials, string, error) {
	clientID, err := utils.RandomHex(credentialBytes)
	if err != nil {
		return nil, "", err
	}
	clientSecret, err := utils.RandomHex(credentialBytes)
	if err != nil {
		return nil, "", err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(clientSecret), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", err
	}
	return &Credentials{ClientID: clientID, ClientSecret: clientSecret}, string(hash), nil
}

// CreateClient registers a new tenant and returns its one-time credentials.
func (s *Service) CreateClient(name string) (*models.Client, *Credentials, error) {
	if err := validateName(name); err != nil {
		return nil, nil, err
	}

	creds, hash, err := generateCredentials()
	if err != nil {
		return nil, nil, err
	}

	now := time.Now().UTC()
	client := &models.Client{
		ID:               uuid.NewString(),
		Name:             name,
		ClientID:         creds.ClientID,
		ClientSecretHash: hash,
		Status:           models.ClientActive,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := s.store.Insert(client); err != nil {
		return nil, nil, err
	}
	return client, creds, nil
}

func (s *Service) patchClient(id string, patch bson.M) (*models.Client, error) {
	if err := validateClientID(id); err != nil {
		return nil, err
	}

	patch["updatedAt"] = time.Now().UTC()
	if err := s.store.UpdateByID(id, patch); err != nil {
		if err == store.ErrNotFound {
			return nil, errs.NewNotExist("There is no client with this ID.")
		}
		return nil, err
	}

	var client models.Client
	if err := s.store.FindByID(id, &client); err != nil {
		return nil, err
	}
	return &client, nil
}

func (s *Service) RenameClient(id, name string) (*models.Client, error) {
	if err := validateName(name); err != nil {
		return nil, err
	}
	return s.patchClient(id, bson.M{"name": name})
}

// RegenerateCredentials replaces both the client id and the secret; the old
// pair stops working immediately.
func (s *Service) RegenerateCredentials(id string) (*Credentials, error) {
	creds, hash, err := generateCredentials()
	if err != nil {
		return nil, err
	}
	_, err = s.patchClient(id, bson.M{"clientId": creds.ClientID, "clientSecretHash": hash})
	if err != nil {
		return nil, err
	}
	return creds, nil
}

func (s *Service) ActivateClient(id string) (*models.Client, error) {
	return s.patchClient(id, bson.M{"status": models.ClientActive})
}

func (s *Service) DeactivateClient(id string) (*models.Client, error) {
	return s.patchClient(id, bson.M{"status": models.ClientInactive})
}

// RetrieveClients pages through all registered clients.
func (s *Service) RetrieveClients(page, limit int) ([]*models.Client, int, error) {
	if page < 1 {
		return nil, 0, errs.NewValidation("Invalid 'page', it must be a positive integer.")
	}
	if limit < 1 {
		return nil, 0, errs.NewValidation("Invalid 'limit', it must be a positive integer.")
	}

	var clients []*models.Client
	if err := s.store.Find(bson.M{}, (page-1)*limit, limit, &clients); err != nil {
		return nil, 0, err
	}
	totalCount, err := s.store.Count(bson.M{})
	if err != nil {
		return nil, 0, err
	}
	return clients, (totalCount + limit - 1) / limit, nil
}

// DeleteClient removes the client record itself. The tenant's entity stores
// are dropped separately through the store registry.
func (s *Service) DeleteClient(id string) error {
	if err := validateClientID(id); err != nil {
		return err
	}
	if err := s.store.DeleteByID(id); err != nil {
		if err == store.ErrNotFound {
			return errs.NewNotExist("There is no client with this ID.")
		}
		return err
	}
	return nil
}

func (s *Service) findByCredentialID(credentialID string) (*models.Client, error) {
	var matched []*models.Client
	if err := s.store.Find(bson.M{"clientId": credentialID}, 0, 1, &matched); err != nil {
		return nil, err
	}
	if len(matched) == 0 {
		return nil, store.ErrNotFound
	}
	return matched[0], nil
}

// Authenticate verifies a client id/secret pair for the token endpoint.
func (s *Service) Authenticate(credentialID, clientSecret string) (*models.Client, error) {
	client, err := s.findByCredentialID(credentialID)
	if err != nil {
		if err == store.ErrNotFound {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if client.Status != models.ClientActive {
		return nil, ErrClientDisabled
	}
	if bcrypt.CompareHashAndPassword([]byte(client.ClientSecretHash), []byte(clientSecret)) != nil {
		return nil, ErrInvalidCredentials
	}
	return client, nil
}

// ResolveTenant resolves the credential id carried in a verified bearer token
// to the tenant identity. Every failure collapses into the same opaque token
// error so the response never reveals whether the client exists.
func (s *Service) ResolveTenant(credentialID string) (*models.Client, error) {
	client, err := s.findByCredentialID(credentialID)
	if err != nil {
		return nil, errs.NewInvalidOrExpiredToken()
	}
	if client.Status != models.ClientActive {
		return nil, errs.NewInvalidOrExpiredToken()
	}
	return client, nil
}
