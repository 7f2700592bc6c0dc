package mocks

//go:generate mockgen -destination=./mock_provider.go -package=mocks github.com/rxtech-lab/argo-alpha/pkg/marketdata/provider Provider
//go:generate mockgen -destination=./mock_factor_source.go -package=mocks github.com/rxtech-lab/argo-alpha/pkg/factor Source
//go:generate mockgen -destination=./mock_store.go -package=mocks github.com/rxtech-lab/argo-alpha/internal/snapshot Store
//go:generate mockgen -destination=./mock_model.go -package=mocks github.com/rxtech-lab/argo-alpha/pkg/alpha Model
