package twitter

import (
	"fmt"
	"strconv"

	gotwitter "github.com/dghubble/go-twitter/twitter"
	"github.com/dghubble/oauth1"
)

// Post is the slice of a timeline entry the rest of the tool needs: the ID
// that goes into the pending queue and the text for human-readable logs.
type Post struct {
	ID   string
	Text string
}

type Credentials struct {
	ConsumerKey       string
	ConsumerSecret    string
	AccessToken       string
	AccessTokenSecret string
}

// Client wraps the v1.1 API with OAuth1 user-context signing.
type Client struct {
	api        *gotwitter.Client
	screenName string
}

func NewClient(creds Credentials, screenName string) *Client {
	oauthConfig := oauth1.NewConfig(creds.ConsumerKey, creds.ConsumerSecret)
	token := oauth1.NewToken(creds.AccessToken, creds.AccessTokenSecret)
	httpClient := oauthConfig.Client(oauth1.NoContext, token)

	return &Client{
		api:        gotwitter.NewClient(httpClient),
		screenName: screenName,
	}
}

// VerifyCredentials checks the account connection and returns the
// authenticated screen name.
func (c *Client) VerifyCredentials() (string, error) {
	user, resp, err := c.api.Accounts.VerifyCredentials(&gotwitter.AccountVerifyParams{
		SkipStatus:   gotwitter.Bool(true),
		IncludeEmail: gotwitter.Bool(false),
	})
	if err != nil {
		return "", classify(resp, err)
	}
	return user.ScreenName, nil
}

// TimelinePage fetches one page of the user timeline. maxID == 0 requests the
// newest page. The returned nextMaxID is the cursor for the following page,
// or 0 when there are no more pages.
func (c *Client) TimelinePage(maxID int64, count int) ([]Post, int64, error) {
	params := &gotwitter.UserTimelineParams{
		ScreenName:      c.screenName,
		Count:           count,
		TrimUser:        gotwitter.Bool(true),
		IncludeRetweets: gotwitter.Bool(true),
	}
	if maxID > 0 {
		params.MaxID = maxID
	}

	tweets, resp, err := c.api.Timelines.UserTimeline(params)
	if err != nil {
		return nil, 0, classify(resp, err)
	}
	if len(tweets) == 0 {
		return nil, 0, nil
	}

	posts := make([]Post, 0, len(tweets))
	lowest := tweets[0].ID
	for _, tweet := range tweets {
		posts = append(posts, Post{
			ID:   tweet.IDStr,
			Text: tweet.Text,
		})
		if tweet.ID < lowest {
			lowest = tweet.ID
		}
	}

	// max_id is inclusive, so the next page starts just below the lowest
	// ID seen on this one.
	return posts, lowest - 1, nil
}

// DestroyPost deletes a single post by ID.
func (c *Client) DestroyPost(id string) error {
	postID, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		return fmt.Errorf("malformed post id %q: %w", id, err)
	}

	_, resp, err := c.api.Statuses.Destroy(postID, &gotwitter.StatusDestroyParams{
		TrimUser: gotwitter.Bool(true),
	})
	if err != nil {
		return classify(resp, err)
	}
	return nil
}
