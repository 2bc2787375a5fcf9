package models

// Роли пользователей. Порядок задаётся рангом: каждая следующая роль
// включает права предыдущих.
const (
	RoleUser       = "user"
	RoleAdmin      = "admin"
	RoleSuperadmin = "superadmin"

	// RoleSubscriber — наследие старой схемы, встречается в данных,
	// но прав сверх обычного пользователя не даёт.
	RoleSubscriber = "subscriber"
)

var roleRanks = map[string]int{
	RoleUser:       0,
	RoleSubscriber: 0,
	RoleAdmin:      1,
	RoleSuperadmin: 2,
}

// RankRole возвращает ранг роли. Функция тотальна: пустая или
// нераспознанная роль получает низший ранг.
func RankRole(role string) int {
	return roleRanks[role]
}

// RoleAllows сообщает, покрывает ли роль role минимально требуемую required.
func RoleAllows(role, required string) bool {
	return RankRole(role) >= RankRole(required)
}
