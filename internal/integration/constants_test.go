package integration_test

const (
	dbName         = "study_rooms"
	dbUser         = "test_user"
	dbPassword     = "test_password"
	dbImageName    = "postgres:17-alpine"
	cacheImageName = "redis:7"

	// Seeded by testdata/study_rooms_up.sql
	TestRoomId       = 1
	TestUserId       = 1
	TestInactiveUser = 2
	TestNormalSeatId = 1
	TestVIPSeatId    = 2
	TestBrokenSeatId = 3

	// Far enough ahead that no window is ever in the past.
	TestDay = "2095-01-02"
)
