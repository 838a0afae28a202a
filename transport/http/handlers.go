package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/akihiro17/kafka-ec2/assignor"
	assignorErrors "github.com/akihiro17/kafka-ec2/assignor/errors"
	"github.com/akihiro17/kafka-ec2/model"
	storageErrors "github.com/akihiro17/kafka-ec2/storage/errors"
)

type assignReqBody struct {
	Members map[string]string `json:"members"`
	Topics  []string          `json:"topics"`
	// Partitions, when set, is used instead of the stored topic metadata.
	Partitions map[string][]int32 `json:"partitions,omitempty"`
}

type assignRespBody struct {
	Strategy   string           `json:"strategy"`
	Assignment model.Assignment `json:"assignment"`
}

func (h *Http) assign(w http.ResponseWriter, r *http.Request) {
	var (
		reqBody assignReqBody
		ctx     = r.Context()
	)
	defer r.Body.Close()
	if err := json.NewDecoder(r.Body).Decode(&reqBody); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if len(reqBody.Topics) == 0 {
		http.Error(w, "topics are required", http.StatusBadRequest)
		return
	}
	var lister assignor.PartitionLister = h.store
	if reqBody.Partitions != nil {
		lister = assignor.StaticLister(reqBody.Partitions)
	}
	assignment, err := h.assignor.Assign(ctx, reqBody.Members, reqBody.Topics, lister)
	if err != nil {
		http.Error(w, err.Error(), statusFor(err))
		return
	}
	writeJSON(w, http.StatusOK, assignRespBody{
		Strategy:   h.assignor.Name(),
		Assignment: assignment,
	})
}

type topicBody struct {
	Name       string  `json:"name"`
	Partitions []int32 `json:"partitions"`
	// Count is shorthand for partitions 0..count-1.
	Count int `json:"count,omitempty"`
}

func (h *Http) putTopic(w http.ResponseWriter, r *http.Request) {
	var (
		reqBody topicBody
		ctx     = r.Context()
		topic   = chi.URLParam(r, "topic")
	)
	defer r.Body.Close()
	if err := json.NewDecoder(r.Body).Decode(&reqBody); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if reqBody.Count < 0 || (reqBody.Count > 0 && len(reqBody.Partitions) > 0) {
		http.Error(w, "set either partitions or a non-negative count", http.StatusBadRequest)
		return
	}
	partitions := reqBody.Partitions
	if reqBody.Count > 0 {
		partitions = make([]int32, reqBody.Count)
		for i := range partitions {
			partitions[i] = int32(i)
		}
	}
	if err := h.store.PutTopic(ctx, topic, partitions); err != nil {
		http.Error(w, err.Error(), statusFor(err))
		return
	}
	stored, err := h.store.PartitionsForTopic(ctx, topic)
	if err != nil {
		http.Error(w, err.Error(), statusFor(err))
		return
	}
	writeJSON(w, http.StatusOK, topicBody{Name: topic, Partitions: stored})
}

func (h *Http) getTopic(w http.ResponseWriter, r *http.Request) {
	topic := chi.URLParam(r, "topic")
	partitions, err := h.store.PartitionsForTopic(r.Context(), topic)
	if err != nil {
		http.Error(w, err.Error(), statusFor(err))
		return
	}
	writeJSON(w, http.StatusOK, topicBody{Name: topic, Partitions: partitions})
}

func (h *Http) listTopics(w http.ResponseWriter, r *http.Request) {
	topics, err := h.store.Topics(r.Context())
	if err != nil {
		http.Error(w, err.Error(), statusFor(err))
		return
	}
	if topics == nil {
		topics = []string{}
	}
	writeJSON(w, http.StatusOK, map[string][]string{"topics": topics})
}

func (h *Http) deleteTopic(w http.ResponseWriter, r *http.Request) {
	if err := h.store.DeleteTopic(r.Context(), chi.URLParam(r, "topic")); err != nil {
		http.Error(w, err.Error(), statusFor(err))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Http) healthCheck(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, storageErrors.ErrTopicNotFound):
		return http.StatusNotFound
	case errors.Is(err, assignorErrors.ErrMalformedMetadata),
		errors.Is(err, assignorErrors.ErrUnknownInstanceFamily),
		errors.Is(err, assignorErrors.ErrUnknownZone),
		errors.Is(err, assignorErrors.ErrNonPositiveWeight),
		errors.Is(err, assignorErrors.ErrNoMembers),
		errors.Is(err, assignorErrors.ErrDuplicatePartition),
		errors.Is(err, storageErrors.ErrInvalidPartition):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	responseBody, err := json.Marshal(body)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(responseBody)
}
