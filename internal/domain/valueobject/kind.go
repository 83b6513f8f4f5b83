package valueobject

// ListingKind разновидность материала: услуга вендора или статья.
type ListingKind string

const (
	ListingKindService ListingKind = "service"
	ListingKindPost    ListingKind = "post"
)

func (k ListingKind) IsValid() bool {
	return k == ListingKindService || k == ListingKindPost
}

// Table возвращает имя таблицы, в которой хранятся материалы этого вида.
func (k ListingKind) Table() string {
	if k == ListingKindService {
		return "services"
	}
	return "posts"
}

// HasRequests сообщает, ведётся ли для вида счётчик заявок.
func (k ListingKind) HasRequests() bool {
	return k == ListingKindService
}
