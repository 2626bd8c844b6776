package service

import (
	"context"
	"sort"
	"time"

	"gorm.io/gorm"

	"github.com/MES4game/POLYHUB-WEB-BACK/internal/model"
	"github.com/MES4game/POLYHUB-WEB-BACK/internal/repository"
)

// ── Mock BuildingRepository ──

type mockBuildingRepo struct {
	buildings map[int64]*model.Building
	roomCount map[int64]int
	nextID    int64
}

func newMockBuildingRepo() *mockBuildingRepo {
	return &mockBuildingRepo{
		buildings: make(map[int64]*model.Building),
		roomCount: make(map[int64]int),
	}
}

func (m *mockBuildingRepo) Create(_ context.Context, building *model.Building) error {
	m.nextID++
	building.ID = m.nextID
	m.buildings[building.ID] = building
	return nil
}

func (m *mockBuildingRepo) GetByID(_ context.Context, id int64) (*model.Building, error) {
	if b, ok := m.buildings[id]; ok {
		return b, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockBuildingRepo) GetByName(_ context.Context, name string) (*model.Building, error) {
	for _, b := range m.buildings {
		if b.Name == name {
			return b, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockBuildingRepo) List(_ context.Context) ([]model.Building, error) {
	var result []model.Building
	for _, b := range m.buildings {
		result = append(result, *b)
	}
	return result, nil
}

func (m *mockBuildingRepo) Delete(_ context.Context, id int64) error {
	delete(m.buildings, id)
	return nil
}

func (m *mockBuildingRepo) UpdateName(_ context.Context, id int64, name string) error {
	if b, ok := m.buildings[id]; ok {
		b.Name = name
		return nil
	}
	return gorm.ErrRecordNotFound
}

func (m *mockBuildingRepo) UpdateDescription(_ context.Context, id int64, description string) error {
	if b, ok := m.buildings[id]; ok {
		b.Description = description
		return nil
	}
	return gorm.ErrRecordNotFound
}

func (m *mockBuildingRepo) HasRooms(_ context.Context, id int64) (bool, error) {
	return m.roomCount[id] > 0, nil
}

// ── Mock RoomRepository ──

type mockRoomRepo struct {
	rooms         map[int64]*model.Room
	features      map[int64]*model.RoomFeature
	featureLinks  map[[2]int64]bool // [room_id, feature_id]
	nextRoomID    int64
	nextFeatureID int64
}

func newMockRoomRepo() *mockRoomRepo {
	return &mockRoomRepo{
		rooms:        make(map[int64]*model.Room),
		features:     make(map[int64]*model.RoomFeature),
		featureLinks: make(map[[2]int64]bool),
	}
}

func (m *mockRoomRepo) Create(_ context.Context, room *model.Room) error {
	m.nextRoomID++
	room.ID = m.nextRoomID
	m.rooms[room.ID] = room
	return nil
}

func (m *mockRoomRepo) GetByID(_ context.Context, id int64) (*model.Room, error) {
	if r, ok := m.rooms[id]; ok {
		return r, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockRoomRepo) GetByBuildingAndName(_ context.Context, buildingID int64, name string) (*model.Room, error) {
	for _, r := range m.rooms {
		if r.BuildingID == buildingID && r.Name == name {
			return r, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockRoomRepo) List(_ context.Context) ([]model.Room, error) {
	var result []model.Room
	for _, r := range m.rooms {
		result = append(result, *r)
	}
	return result, nil
}

func (m *mockRoomRepo) ListByBuilding(_ context.Context, buildingID int64) ([]model.Room, error) {
	var result []model.Room
	for _, r := range m.rooms {
		if r.BuildingID == buildingID {
			result = append(result, *r)
		}
	}
	return result, nil
}

func (m *mockRoomRepo) Delete(_ context.Context, id int64) error {
	delete(m.rooms, id)
	for key := range m.featureLinks {
		if key[0] == id {
			delete(m.featureLinks, key)
		}
	}
	return nil
}

func (m *mockRoomRepo) UpdateBuildingID(_ context.Context, id, buildingID int64) error {
	if r, ok := m.rooms[id]; ok {
		r.BuildingID = buildingID
		return nil
	}
	return gorm.ErrRecordNotFound
}

func (m *mockRoomRepo) UpdateName(_ context.Context, id int64, name string) error {
	if r, ok := m.rooms[id]; ok {
		r.Name = name
		return nil
	}
	return gorm.ErrRecordNotFound
}

func (m *mockRoomRepo) UpdateDescription(_ context.Context, id int64, description string) error {
	if r, ok := m.rooms[id]; ok {
		r.Description = description
		return nil
	}
	return gorm.ErrRecordNotFound
}

func (m *mockRoomRepo) UpdateCapacity(_ context.Context, id int64, capacity int) error {
	if r, ok := m.rooms[id]; ok {
		r.Capacity = capacity
		return nil
	}
	return gorm.ErrRecordNotFound
}

func (m *mockRoomRepo) CreateFeature(_ context.Context, feature *model.RoomFeature) error {
	m.nextFeatureID++
	feature.ID = m.nextFeatureID
	m.features[feature.ID] = feature
	return nil
}

func (m *mockRoomRepo) GetFeatureByID(_ context.Context, id int64) (*model.RoomFeature, error) {
	if f, ok := m.features[id]; ok {
		return f, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockRoomRepo) GetFeatureByName(_ context.Context, name string) (*model.RoomFeature, error) {
	for _, f := range m.features {
		if f.Name == name {
			return f, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockRoomRepo) ListFeatures(_ context.Context) ([]model.RoomFeature, error) {
	var result []model.RoomFeature
	for _, f := range m.features {
		result = append(result, *f)
	}
	return result, nil
}

func (m *mockRoomRepo) DeleteFeature(_ context.Context, id int64) error {
	delete(m.features, id)
	return nil
}

func (m *mockRoomRepo) UpdateFeatureName(_ context.Context, id int64, name string) error {
	if f, ok := m.features[id]; ok {
		f.Name = name
		return nil
	}
	return gorm.ErrRecordNotFound
}

func (m *mockRoomRepo) UpdateFeatureDescription(_ context.Context, id int64, description string) error {
	if f, ok := m.features[id]; ok {
		f.Description = description
		return nil
	}
	return gorm.ErrRecordNotFound
}

func (m *mockRoomRepo) FeatureLinked(_ context.Context, featureID int64) (bool, error) {
	for key := range m.featureLinks {
		if key[1] == featureID {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockRoomRepo) ListFeatureIDs(_ context.Context, roomID int64) ([]int64, error) {
	var result []int64
	for key := range m.featureLinks {
		if key[0] == roomID {
			result = append(result, key[1])
		}
	}
	return result, nil
}

func (m *mockRoomRepo) HasFeatureLink(_ context.Context, roomID, featureID int64) (bool, error) {
	return m.featureLinks[[2]int64{roomID, featureID}], nil
}

func (m *mockRoomRepo) LinkFeature(_ context.Context, roomID, featureID int64) error {
	m.featureLinks[[2]int64{roomID, featureID}] = true
	return nil
}

func (m *mockRoomRepo) UnlinkFeature(_ context.Context, roomID, featureID int64) error {
	delete(m.featureLinks, [2]int64{roomID, featureID})
	return nil
}

// ── Mock LessonRepository ──

// lessonGroupTable 课程-班组关联行，在 lesson / group 两个 mock 之间共享
type lessonGroupTable struct {
	rows []model.LessonGroup
}

type mockLessonRepo struct {
	lessons    map[int64]*model.Lesson
	types      map[int64]*model.LessonType
	links      *lessonGroupTable
	nextID     int64
	nextTypeID int64
}

func newMockLessonRepo(links *lessonGroupTable) *mockLessonRepo {
	return &mockLessonRepo{
		lessons: make(map[int64]*model.Lesson),
		types:   make(map[int64]*model.LessonType),
		links:   links,
	}
}

func (m *mockLessonRepo) Create(_ context.Context, lesson *model.Lesson) error {
	m.nextID++
	lesson.ID = m.nextID
	m.lessons[lesson.ID] = lesson
	return nil
}

func (m *mockLessonRepo) GetByID(_ context.Context, id int64) (*model.Lesson, error) {
	if l, ok := m.lessons[id]; ok {
		return l, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockLessonRepo) GetByName(_ context.Context, name string) (*model.Lesson, error) {
	for _, l := range m.lessons {
		if l.Name == name {
			return l, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockLessonRepo) List(_ context.Context) ([]model.Lesson, error) {
	var result []model.Lesson
	for _, l := range m.lessons {
		result = append(result, *l)
	}
	return result, nil
}

func (m *mockLessonRepo) Delete(_ context.Context, id int64) error {
	delete(m.lessons, id)
	return nil
}

func (m *mockLessonRepo) UpdateName(_ context.Context, id int64, name string) error {
	if l, ok := m.lessons[id]; ok {
		l.Name = name
		return nil
	}
	return gorm.ErrRecordNotFound
}

func (m *mockLessonRepo) UpdateDescription(_ context.Context, id int64, description string) error {
	if l, ok := m.lessons[id]; ok {
		l.Description = description
		return nil
	}
	return gorm.ErrRecordNotFound
}

func (m *mockLessonRepo) UpdateColor(_ context.Context, id int64, color string) error {
	if l, ok := m.lessons[id]; ok {
		l.Color = color
		return nil
	}
	return gorm.ErrRecordNotFound
}

func (m *mockLessonRepo) CreateType(_ context.Context, lessonType *model.LessonType) error {
	m.nextTypeID++
	lessonType.ID = m.nextTypeID
	m.types[lessonType.ID] = lessonType
	return nil
}

func (m *mockLessonRepo) GetTypeByID(_ context.Context, id int64) (*model.LessonType, error) {
	if t, ok := m.types[id]; ok {
		return t, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockLessonRepo) GetTypeByName(_ context.Context, name string) (*model.LessonType, error) {
	for _, t := range m.types {
		if t.Name == name {
			return t, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockLessonRepo) ListTypes(_ context.Context) ([]model.LessonType, error) {
	var result []model.LessonType
	for _, t := range m.types {
		result = append(result, *t)
	}
	return result, nil
}

func (m *mockLessonRepo) DeleteType(_ context.Context, id int64) error {
	delete(m.types, id)
	return nil
}

func (m *mockLessonRepo) UpdateTypeName(_ context.Context, id int64, name string) error {
	if t, ok := m.types[id]; ok {
		t.Name = name
		return nil
	}
	return gorm.ErrRecordNotFound
}

func (m *mockLessonRepo) UpdateTypeDescription(_ context.Context, id int64, description string) error {
	if t, ok := m.types[id]; ok {
		t.Description = description
		return nil
	}
	return gorm.ErrRecordNotFound
}

func (m *mockLessonRepo) ListGroupLinks(_ context.Context, filter repository.LessonGroupFilter) ([]model.LessonGroup, error) {
	var result []model.LessonGroup
	for _, row := range m.links.rows {
		if filter.GroupID != nil && row.GroupID != *filter.GroupID {
			continue
		}
		if filter.LessonID != nil && row.LessonID != *filter.LessonID {
			continue
		}
		if filter.LessonTypeID != nil && row.LessonTypeID != *filter.LessonTypeID {
			continue
		}
		if filter.LessonArg != nil && row.LessonArg != *filter.LessonArg {
			continue
		}
		result = append(result, row)
	}
	return result, nil
}

// ── Mock GroupRepository ──

type mockGroupRepo struct {
	groups    map[int64]*model.Group
	userLinks map[[2]int64]bool // [group_id, user_id]
	links     *lessonGroupTable
	nextID    int64
}

func newMockGroupRepo(links *lessonGroupTable) *mockGroupRepo {
	return &mockGroupRepo{
		groups:    make(map[int64]*model.Group),
		userLinks: make(map[[2]int64]bool),
		links:     links,
	}
}

func (m *mockGroupRepo) Create(_ context.Context, group *model.Group) error {
	m.nextID++
	group.ID = m.nextID
	m.groups[group.ID] = group
	return nil
}

func (m *mockGroupRepo) GetByID(_ context.Context, id int64) (*model.Group, error) {
	if g, ok := m.groups[id]; ok {
		return g, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockGroupRepo) GetByParentAndName(_ context.Context, parentID *int64, name string) (*model.Group, error) {
	for _, g := range m.groups {
		if g.Name != name {
			continue
		}
		if parentID == nil && g.ParentID == nil {
			return g, nil
		}
		if parentID != nil && g.ParentID != nil && *g.ParentID == *parentID {
			return g, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockGroupRepo) List(_ context.Context) ([]model.Group, error) {
	var result []model.Group
	for _, g := range m.groups {
		result = append(result, *g)
	}
	return result, nil
}

func (m *mockGroupRepo) ListChildren(_ context.Context, parentID *int64) ([]model.Group, error) {
	var result []model.Group
	for _, g := range m.groups {
		if parentID == nil && g.ParentID == nil {
			result = append(result, *g)
		}
		if parentID != nil && g.ParentID != nil && *g.ParentID == *parentID {
			result = append(result, *g)
		}
	}
	return result, nil
}

func (m *mockGroupRepo) HasChildren(_ context.Context, id int64) (bool, error) {
	for _, g := range m.groups {
		if g.ParentID != nil && *g.ParentID == id {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockGroupRepo) Delete(_ context.Context, id int64) error {
	delete(m.groups, id)
	return nil
}

func (m *mockGroupRepo) UpdateParentID(_ context.Context, id int64, parentID *int64) error {
	if g, ok := m.groups[id]; ok {
		g.ParentID = parentID
		return nil
	}
	return gorm.ErrRecordNotFound
}

func (m *mockGroupRepo) UpdateName(_ context.Context, id int64, name string) error {
	if g, ok := m.groups[id]; ok {
		g.Name = name
		return nil
	}
	return gorm.ErrRecordNotFound
}

func (m *mockGroupRepo) UpdateDescription(_ context.Context, id int64, description string) error {
	if g, ok := m.groups[id]; ok {
		g.Description = description
		return nil
	}
	return gorm.ErrRecordNotFound
}

func (m *mockGroupRepo) ListUserIDs(_ context.Context, groupID int64) ([]int64, error) {
	var result []int64
	for key := range m.userLinks {
		if key[0] == groupID {
			result = append(result, key[1])
		}
	}
	return result, nil
}

func (m *mockGroupRepo) HasUserLinks(_ context.Context, groupID int64) (bool, error) {
	for key := range m.userLinks {
		if key[0] == groupID {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockGroupRepo) HasUserLink(_ context.Context, groupID, userID int64) (bool, error) {
	return m.userLinks[[2]int64{groupID, userID}], nil
}

func (m *mockGroupRepo) LinkUser(_ context.Context, groupID, userID int64) error {
	m.userLinks[[2]int64{groupID, userID}] = true
	return nil
}

func (m *mockGroupRepo) UnlinkUser(_ context.Context, groupID, userID int64) error {
	delete(m.userLinks, [2]int64{groupID, userID})
	return nil
}

func (m *mockGroupRepo) ListLessonLinks(_ context.Context, groupID int64) ([]model.LessonGroup, error) {
	var result []model.LessonGroup
	for _, row := range m.links.rows {
		if row.GroupID == groupID {
			result = append(result, row)
		}
	}
	return result, nil
}

func (m *mockGroupRepo) HasLessonLink(_ context.Context, groupID, lessonID, lessonTypeID int64, lessonArg int) (bool, error) {
	for _, row := range m.links.rows {
		if row.GroupID == groupID && row.LessonID == lessonID && row.LessonTypeID == lessonTypeID && row.LessonArg == lessonArg {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockGroupRepo) LinkLesson(_ context.Context, link *model.LessonGroup) error {
	m.links.rows = append(m.links.rows, *link)
	return nil
}

func (m *mockGroupRepo) UnlinkLesson(_ context.Context, groupID, lessonID, lessonTypeID int64, lessonArg int) error {
	var remaining []model.LessonGroup
	for _, row := range m.links.rows {
		if row.GroupID == groupID && row.LessonID == lessonID && row.LessonTypeID == lessonTypeID && row.LessonArg == lessonArg {
			continue
		}
		remaining = append(remaining, row)
	}
	m.links.rows = remaining
	return nil
}

// ── Mock RoleRepository ──

type mockRoleRepo struct {
	roles map[int64]*model.Role
	links map[[2]int64]bool // [user_id, role_id]
}

// newMockRoleRepo 预置 admin / moderator / teacher 三个角色（与迁移一致）
func newMockRoleRepo() *mockRoleRepo {
	return &mockRoleRepo{
		roles: map[int64]*model.Role{
			1: {ID: 1, Name: model.RoleAdmin, Description: "管理员"},
			2: {ID: 2, Name: model.RoleModerator, Description: "协调员"},
			3: {ID: 3, Name: model.RoleTeacher, Description: "教师"},
		},
		links: make(map[[2]int64]bool),
	}
}

func (m *mockRoleRepo) GetByID(_ context.Context, id int64) (*model.Role, error) {
	if r, ok := m.roles[id]; ok {
		return r, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockRoleRepo) GetByName(_ context.Context, name string) (*model.Role, error) {
	for _, r := range m.roles {
		if r.Name == name {
			return r, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockRoleRepo) List(_ context.Context) ([]model.Role, error) {
	var result []model.Role
	for _, r := range m.roles {
		result = append(result, *r)
	}
	return result, nil
}

func (m *mockRoleRepo) UpdateDescription(_ context.Context, id int64, description string) error {
	if r, ok := m.roles[id]; ok {
		r.Description = description
		return nil
	}
	return gorm.ErrRecordNotFound
}

func (m *mockRoleRepo) ListUserIDs(_ context.Context, roleID int64) ([]int64, error) {
	var result []int64
	for key := range m.links {
		if key[1] == roleID {
			result = append(result, key[0])
		}
	}
	return result, nil
}

func (m *mockRoleRepo) HasLink(_ context.Context, userID, roleID int64) (bool, error) {
	return m.links[[2]int64{userID, roleID}], nil
}

func (m *mockRoleRepo) Link(_ context.Context, userID, roleID int64) error {
	m.links[[2]int64{userID, roleID}] = true
	return nil
}

func (m *mockRoleRepo) Unlink(_ context.Context, userID, roleID int64) error {
	delete(m.links, [2]int64{userID, roleID})
	return nil
}

func (m *mockRoleRepo) UserHasAnyRole(_ context.Context, userID int64, names []string) (bool, error) {
	if len(names) == 0 {
		return true, nil
	}
	for _, name := range names {
		for _, r := range m.roles {
			if r.Name == name && m.links[[2]int64{userID, r.ID}] {
				return true, nil
			}
		}
	}
	return false, nil
}

// ── Mock UserRepository ──

type mockUserRepo struct {
	users     map[int64]*model.User
	passwords map[int64]string
	roleIDs   map[int64][]int64
	groupIDs  map[int64][]int64
	eventIDs  map[int64][]int64
	nextID    int64
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{
		users:     make(map[int64]*model.User),
		passwords: make(map[int64]string),
		roleIDs:   make(map[int64][]int64),
		groupIDs:  make(map[int64][]int64),
		eventIDs:  make(map[int64][]int64),
	}
}

func (m *mockUserRepo) CreateWithPassword(_ context.Context, user *model.User, hashedPass string) error {
	m.nextID++
	user.ID = m.nextID
	user.CreatedOn = time.Now()
	user.LastConnection = time.Now()
	m.users[user.ID] = user
	m.passwords[user.ID] = hashedPass
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id int64) (*model.User, error) {
	if u, ok := m.users[id]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) GetByPseudo(_ context.Context, pseudo string) (*model.User, error) {
	for _, u := range m.users {
		if u.Pseudo == pseudo {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) GetByLogin(_ context.Context, login string) (*model.User, error) {
	for _, u := range m.users {
		if u.Email == login || u.Pseudo == login {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) List(_ context.Context) ([]model.User, error) {
	var result []model.User
	for _, u := range m.users {
		result = append(result, *u)
	}
	return result, nil
}

func (m *mockUserRepo) Delete(_ context.Context, id int64) error {
	delete(m.users, id)
	delete(m.passwords, id)
	return nil
}

func (m *mockUserRepo) UpdatePseudo(_ context.Context, id int64, pseudo string) error {
	if u, ok := m.users[id]; ok {
		u.Pseudo = pseudo
		return nil
	}
	return gorm.ErrRecordNotFound
}

func (m *mockUserRepo) UpdateFirstname(_ context.Context, id int64, firstname string) error {
	if u, ok := m.users[id]; ok {
		u.Firstname = firstname
		return nil
	}
	return gorm.ErrRecordNotFound
}

func (m *mockUserRepo) UpdateLastname(_ context.Context, id int64, lastname string) error {
	if u, ok := m.users[id]; ok {
		u.Lastname = lastname
		return nil
	}
	return gorm.ErrRecordNotFound
}

func (m *mockUserRepo) SetVerifiedEmail(_ context.Context, id int64) error {
	if u, ok := m.users[id]; ok {
		u.VerifiedEmail = true
		return nil
	}
	return gorm.ErrRecordNotFound
}

func (m *mockUserRepo) TouchLastConnection(_ context.Context, id int64) error {
	if u, ok := m.users[id]; ok {
		u.LastConnection = time.Now()
		return nil
	}
	return gorm.ErrRecordNotFound
}

func (m *mockUserRepo) GetHashedPassword(_ context.Context, userID int64) (*model.UserHashedPassword, error) {
	if hash, ok := m.passwords[userID]; ok {
		return &model.UserHashedPassword{UserID: userID, HashedPass: hash}, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) UpsertHashedPassword(_ context.Context, userID int64, hashedPass string) error {
	m.passwords[userID] = hashedPass
	return nil
}

func (m *mockUserRepo) ListRoleIDs(_ context.Context, userID int64) ([]int64, error) {
	return m.roleIDs[userID], nil
}

func (m *mockUserRepo) ListGroupIDs(_ context.Context, userID int64) ([]int64, error) {
	return m.groupIDs[userID], nil
}

func (m *mockUserRepo) ListEventIDs(_ context.Context, userID int64) ([]int64, error) {
	return m.eventIDs[userID], nil
}

// ── Mock EventRepository ──

type mockEventRepo struct {
	events    map[int64]*model.Event
	roomLinks map[[2]int64]bool // [event_id, room_id]
	userLinks map[[2]int64]bool // [event_id, user_id]
	nextID    int64
}

func newMockEventRepo() *mockEventRepo {
	return &mockEventRepo{
		events:    make(map[int64]*model.Event),
		roomLinks: make(map[[2]int64]bool),
		userLinks: make(map[[2]int64]bool),
	}
}

func (m *mockEventRepo) Create(_ context.Context, event *model.Event) error {
	m.nextID++
	event.ID = m.nextID
	m.events[event.ID] = event
	return nil
}

func (m *mockEventRepo) GetByID(_ context.Context, id int64) (*model.Event, error) {
	if e, ok := m.events[id]; ok {
		return e, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockEventRepo) List(_ context.Context) ([]model.Event, error) {
	var result []model.Event
	for _, e := range m.events {
		result = append(result, *e)
	}
	return result, nil
}

func (m *mockEventRepo) ListFiltered(_ context.Context, filter repository.EventFilter) ([]model.Event, error) {
	var result []model.Event
	for _, e := range m.events {
		if filter.After != nil && e.Start.Before(*filter.After) {
			continue
		}
		if filter.Before != nil && e.End.After(*filter.Before) {
			continue
		}
		if len(filter.RoomIDs) > 0 && !m.linkedToAnyRoom(e.ID, filter.RoomIDs) {
			continue
		}
		if len(filter.LessonIDs) > 0 && !matchNullableID(e.LessonID, filter.LessonIDs) {
			continue
		}
		if len(filter.LessonTypeIDs) > 0 && !matchNullableID(e.LessonTypeID, filter.LessonTypeIDs) {
			continue
		}
		if len(filter.LessonArgs) > 0 && !containsInt(filter.LessonArgs, e.LessonArg) {
			continue
		}
		result = append(result, *e)
	}
	return result, nil
}

func (m *mockEventRepo) linkedToAnyRoom(eventID int64, roomIDs []int64) bool {
	for _, roomID := range roomIDs {
		if m.roomLinks[[2]int64{eventID, roomID}] {
			return true
		}
	}
	return false
}

func matchNullableID(value *int64, wanted []*int64) bool {
	for _, w := range wanted {
		if w == nil && value == nil {
			return true
		}
		if w != nil && value != nil && *w == *value {
			return true
		}
	}
	return false
}

func containsInt(values []int, v int) bool {
	for _, x := range values {
		if x == v {
			return true
		}
	}
	return false
}

func (m *mockEventRepo) Delete(_ context.Context, id int64) error {
	delete(m.events, id)
	for key := range m.roomLinks {
		if key[0] == id {
			delete(m.roomLinks, key)
		}
	}
	for key := range m.userLinks {
		if key[0] == id {
			delete(m.userLinks, key)
		}
	}
	return nil
}

func (m *mockEventRepo) Update(_ context.Context, event *model.Event) error {
	if _, ok := m.events[event.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	m.events[event.ID] = event
	return nil
}

// timesOverlap 模拟 SQL 的 BETWEEN 探测：候选日程的 start 或 end 落在探测窗口内
func timesOverlap(candidate, probe *model.Event) bool {
	within := func(t time.Time) bool {
		return !t.Before(probe.Start) && !t.After(probe.End)
	}
	return within(candidate.Start) || within(candidate.End)
}

func sameNullableID(a, b *int64) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func (m *mockEventRepo) FindTripleOverlap(_ context.Context, excludeID int64, event *model.Event) (*model.Event, error) {
	for _, e := range m.events {
		if excludeID > 0 && e.ID == excludeID {
			continue
		}
		if !sameNullableID(e.LessonID, event.LessonID) || !sameNullableID(e.LessonTypeID, event.LessonTypeID) {
			continue
		}
		if e.LessonArg != event.LessonArg {
			continue
		}
		if timesOverlap(e, event) {
			return e, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockEventRepo) FindRoomOverlap(_ context.Context, excludeID, roomID int64, event *model.Event) (*model.Event, error) {
	for _, e := range m.events {
		if excludeID > 0 && e.ID == excludeID {
			continue
		}
		if !m.roomLinks[[2]int64{e.ID, roomID}] {
			continue
		}
		if timesOverlap(e, event) {
			return e, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockEventRepo) ExistsByLesson(_ context.Context, lessonID int64) (bool, error) {
	for _, e := range m.events {
		if e.LessonID != nil && *e.LessonID == lessonID {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockEventRepo) ExistsByLessonType(_ context.Context, lessonTypeID int64) (bool, error) {
	for _, e := range m.events {
		if e.LessonTypeID != nil && *e.LessonTypeID == lessonTypeID {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockEventRepo) ListRoomIDs(_ context.Context, eventID int64) ([]int64, error) {
	var result []int64
	for key := range m.roomLinks {
		if key[0] == eventID {
			result = append(result, key[1])
		}
	}
	return result, nil
}

func (m *mockEventRepo) HasRoomLink(_ context.Context, eventID, roomID int64) (bool, error) {
	return m.roomLinks[[2]int64{eventID, roomID}], nil
}

func (m *mockEventRepo) LinkRoom(_ context.Context, eventID, roomID int64) error {
	m.roomLinks[[2]int64{eventID, roomID}] = true
	return nil
}

func (m *mockEventRepo) UnlinkRoom(_ context.Context, eventID, roomID int64) error {
	delete(m.roomLinks, [2]int64{eventID, roomID})
	return nil
}

func (m *mockEventRepo) RoomHasLinks(_ context.Context, roomID int64) (bool, error) {
	for key := range m.roomLinks {
		if key[1] == roomID {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockEventRepo) ListUserIDs(_ context.Context, eventID int64) ([]int64, error) {
	var result []int64
	for key := range m.userLinks {
		if key[0] == eventID {
			result = append(result, key[1])
		}
	}
	return result, nil
}

func (m *mockEventRepo) HasUserLink(_ context.Context, eventID, userID int64) (bool, error) {
	return m.userLinks[[2]int64{eventID, userID}], nil
}

func (m *mockEventRepo) LinkUser(_ context.Context, eventID, userID int64) error {
	m.userLinks[[2]int64{eventID, userID}] = true
	return nil
}

func (m *mockEventRepo) UnlinkUser(_ context.Context, eventID, userID int64) error {
	delete(m.userLinks, [2]int64{eventID, userID})
	return nil
}

func (m *mockEventRepo) ListForUser(_ context.Context, userID int64) ([]model.Event, error) {
	var result []model.Event
	for key := range m.userLinks {
		if key[1] != userID {
			continue
		}
		if e, ok := m.events[key[0]]; ok {
			result = append(result, *e)
		}
	}
	// 与真实仓储一致，按开始时间排序
	sort.Slice(result, func(i, j int) bool { return result[i].Start.Before(result[j].Start) })
	return result, nil
}

// newMockRepository 组装一套全 mock 的 Repository 聚合
func newMockRepository() (*repository.Repository, *lessonGroupTable) {
	links := &lessonGroupTable{}
	return &repository.Repository{
		User:     newMockUserRepo(),
		Role:     newMockRoleRepo(),
		Building: newMockBuildingRepo(),
		Room:     newMockRoomRepo(),
		Lesson:   newMockLessonRepo(links),
		Group:    newMockGroupRepo(links),
		Event:    newMockEventRepo(),
	}, links
}
