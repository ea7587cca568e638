package handlers_test

import (
	"net/http"
	"testing"

	"goddit/internal/db"
	"goddit/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func votePayload(post models.Post, value int) map[string]any {
	return map[string]any{
		"identifier": post.Identifier,
		"slug":       post.Slug,
		"value":      value,
	}
}

func countVotes(t *testing.T) int64 {
	t.Helper()
	var count int64
	require.NoError(t, db.DB.Model(&models.Vote{}).Count(&count).Error)
	return count
}

func TestVoteOnPost(t *testing.T) {
	r, tokens := newTestServer(t)
	alice := createUser(t, "alice", "alice@x.com", "pw1234")
	sub := createSub(t, "golang", alice)
	post := createPost(t, "hello", alice, sub)

	w := doJSON(t, r, http.MethodPost, "/api/votes", votePayload(post, 1), authCookie(t, tokens, "alice"))
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	assert.EqualValues(t, 1, body["vote_score"])
	assert.EqualValues(t, 1, body["user_vote"])
	assert.EqualValues(t, 1, countVotes(t))
}

func TestVoteThenRemove(t *testing.T) {
	r, tokens := newTestServer(t)
	alice := createUser(t, "alice", "alice@x.com", "pw1234")
	sub := createSub(t, "golang", alice)
	post := createPost(t, "hello", alice, sub)
	cookie := authCookie(t, tokens, "alice")

	w := doJSON(t, r, http.MethodPost, "/api/votes", votePayload(post, 1), cookie)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, http.MethodPost, "/api/votes", votePayload(post, 0), cookie)
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	assert.EqualValues(t, 0, body["vote_score"])
	assert.EqualValues(t, 0, body["user_vote"])
	assert.EqualValues(t, 0, countVotes(t))
}

func TestVoteRemoveWithoutExisting(t *testing.T) {
	r, tokens := newTestServer(t)
	alice := createUser(t, "alice", "alice@x.com", "pw1234")
	sub := createSub(t, "golang", alice)
	post := createPost(t, "hello", alice, sub)

	w := doJSON(t, r, http.MethodPost, "/api/votes", votePayload(post, 0), authCookie(t, tokens, "alice"))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestVoteBadValue(t *testing.T) {
	r, tokens := newTestServer(t)
	alice := createUser(t, "alice", "alice@x.com", "pw1234")
	sub := createSub(t, "golang", alice)
	post := createPost(t, "hello", alice, sub)

	w := doJSON(t, r, http.MethodPost, "/api/votes", votePayload(post, 7), authCookie(t, tokens, "alice"))
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decodeBody(t, w), "value")
}

func TestVoteRequiresAuth(t *testing.T) {
	r, _ := newTestServer(t)
	alice := createUser(t, "alice", "alice@x.com", "pw1234")
	sub := createSub(t, "golang", alice)
	post := createPost(t, "hello", alice, sub)

	w := doJSON(t, r, http.MethodPost, "/api/votes", votePayload(post, 1))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestVoteOnComment(t *testing.T) {
	r, tokens := newTestServer(t)
	alice := createUser(t, "alice", "alice@x.com", "pw1234")
	sub := createSub(t, "golang", alice)
	post := createPost(t, "hello", alice, sub)

	comment := models.Comment{Identifier: "cmnt0001", PostID: post.ID, UserID: alice.ID, Body: "hi"}
	require.NoError(t, db.DB.Create(&comment).Error)

	payload := votePayload(post, -1)
	payload["comment_identifier"] = comment.Identifier

	w := doJSON(t, r, http.MethodPost, "/api/votes", payload, authCookie(t, tokens, "alice"))
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	// comment vote must not count against the post itself
	assert.EqualValues(t, 0, body["vote_score"])

	comments, ok := body["comments"].([]any)
	require.True(t, ok)
	require.Len(t, comments, 1)
	cm := comments[0].(map[string]any)
	assert.EqualValues(t, -1, cm["vote_score"])
	assert.EqualValues(t, -1, cm["user_vote"])
}

func TestVoteUnknownPost(t *testing.T) {
	r, tokens := newTestServer(t)
	createUser(t, "alice", "alice@x.com", "pw1234")

	w := doJSON(t, r, http.MethodPost, "/api/votes", map[string]any{
		"identifier": "zzzzzzz",
		"slug":       "nope",
		"value":      1,
	}, authCookie(t, tokens, "alice"))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestVoteAggregatesAcrossUsers(t *testing.T) {
	r, tokens := newTestServer(t)
	alice := createUser(t, "alice", "alice@x.com", "pw1234")
	createUser(t, "bob", "bob@x.com", "pw1234")
	sub := createSub(t, "golang", alice)
	post := createPost(t, "hello", alice, sub)

	w := doJSON(t, r, http.MethodPost, "/api/votes", votePayload(post, 1), authCookie(t, tokens, "alice"))
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, http.MethodPost, "/api/votes", votePayload(post, 1), authCookie(t, tokens, "bob"))
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	assert.EqualValues(t, 2, body["vote_score"])
	assert.EqualValues(t, 1, body["user_vote"], "user_vote is the requester's own vote")
}
