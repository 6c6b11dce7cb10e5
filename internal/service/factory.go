package service

import (
	"clienthub.app/hub/core/config"
	"clienthub.app/hub/internal/cache"
	"clienthub.app/hub/internal/store"
)

type Services struct {
	stores   *store.Stores
	txRunner TxRunner
	cache    cache.IdentityCache
	provider IdentityProvider
	cfg      config.Config
}

func NewServices(stores *store.Stores, txRunner TxRunner, identityCache cache.IdentityCache, provider IdentityProvider, cfg config.Config) *Services {
	return &Services{
		stores:   stores,
		txRunner: txRunner,
		cache:    identityCache,
		provider: provider,
		cfg:      cfg,
	}
}

func (s *Services) Identity() IdentityResolver {
	return NewIdentityResolver(s.stores.Sessions(), s.stores.Profiles(), s.cache, s.cfg.Redis.IdentityTTL)
}

func (s *Services) Auth() AuthService {
	return NewAuthService(
		s.stores.Profiles(),
		s.stores.Sessions(),
		s.txRunner,
		s.provider,
		s.cache,
		AuthConfig{SessionTTL: s.cfg.Session.TTL, TrialPeriod: s.cfg.TrialPeriod()},
	)
}

func (s *Services) Organizations() OrganizationService {
	return NewOrganizationService(s.stores.Organizations())
}

func (s *Services) Profiles() ProfileService {
	return NewProfileService(s.stores.Profiles(), s.stores.Clients(), s.Identity())
}

func (s *Services) Clients() ClientService {
	return NewClientService(s.stores.Clients())
}

func (s *Services) Requests() RequestService {
	return NewRequestService(s.stores.Requests(), s.stores.Clients(), s.txRunner)
}

func (s *Services) Comments() CommentService {
	return NewCommentService(s.stores.Requests(), s.stores.Comments())
}

func (s *Services) Dashboard() DashboardService {
	return NewDashboardService(s.stores.Requests(), s.stores.Clients())
}
