package domain_test

import (
	"time"

	"clienthub.app/hub/internal/domain"
	"clienthub.app/hub/internal/model"
)

const (
	orgA    int64 = 100
	orgB    int64 = 200
	client1 int64 = 11
	client2 int64 = 12
)

func ptr[T any](v T) *T {
	return &v
}

func staff(role model.Role, orgID int64) domain.Identity {
	id, err := domain.NewIdentity(model.Profile{ID: 1, Role: role, OrganizationID: ptr(orgID)}, 1)
	if err != nil {
		panic(err)
	}
	return id
}

func clientIdentity(orgID, clientID int64) domain.Identity {
	id, err := domain.NewIdentity(model.Profile{ID: 2, Role: model.RoleClient, OrganizationID: ptr(orgID), ClientID: ptr(clientID)}, 2)
	if err != nil {
		panic(err)
	}
	return id
}

func request(status model.RequestStatus, due *time.Time) model.Request {
	return model.Request{
		ID:             1,
		OrganizationID: orgA,
		ClientID:       client1,
		Title:          "Logo refresh",
		Type:           model.RequestTypeDesign,
		Priority:       model.PriorityMedium,
		Status:         status,
		DueDate:        due,
	}
}
