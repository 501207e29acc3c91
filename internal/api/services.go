package api

// Service accessors group Client methods by resource.
// Each service embeds *Client so the full request surface stays available.

type TicketsService struct{ *Client }

type ContactsService struct{ *Client }

type TopicsService struct{ *Client }

type SolutionsService struct{ *Client }

func (c *Client) Tickets() TicketsService {
	return TicketsService{c}
}

func (c *Client) Contacts() ContactsService {
	return ContactsService{c}
}

func (c *Client) Topics() TopicsService {
	return TopicsService{c}
}

func (c *Client) Solutions() SolutionsService {
	return SolutionsService{c}
}
