package mocks

//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name Repository --dir ../domain/league --output domain/league --outpkg leaguemock --filename repository_mock.go
//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name Registry --dir ../domain/player --output domain/player --outpkg playermock --filename registry_mock.go
//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name Results --dir ../domain/match --output domain/match --outpkg matchmock --filename results_mock.go
