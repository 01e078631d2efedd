package pubsub

import (
	"context"
	"errors"
	"fmt"
	"strings"

	pubsub "cloud.google.com/go/pubsub/v2"
	"cloud.google.com/go/pubsub/v2/apiv1/pubsubpb"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/shery7378/multifront/pkg/config"
	"github.com/shery7378/multifront/pkg/logger"
)

var (
	errNoProject = errors.New("gcp project id is required")
	errNoTopic   = errors.New("pubsub topic name is required")
	errNotReady  = errors.New("pubsub client not initialized")
)

// Client owns the Pub/Sub connection used to announce placed orders.
type Client struct {
	ps      *pubsub.Client
	project string
	orders  string
}

// NewClient connects to Pub/Sub and refuses to start when the orders topic is missing.
func NewClient(ctx context.Context, gcp config.GCPConfig, cfg config.PubSubConfig, logg *logger.Logger) (*Client, error) {
	project := strings.TrimSpace(gcp.ProjectID)
	if project == "" {
		return nil, errNoProject
	}
	ps, err := pubsub.NewClient(ctx, project, clientOptions(cfg)...)
	if err != nil {
		return nil, fmt.Errorf("creating pubsub client: %w", err)
	}

	c := &Client{ps: ps, project: project, orders: cfg.OrdersTopic}
	if err := c.checkTopic(ctx, c.orders); err != nil {
		_ = ps.Close()
		return nil, err
	}
	if logg != nil {
		logg.Info(logg.WithFields(ctx, map[string]any{
			"topic":    c.topicPath(c.orders),
			"emulator": cfg.Endpoint != "",
		}), "pubsub ready")
	}
	return c, nil
}

// clientOptions points the client at an emulator when an endpoint is configured.
func clientOptions(cfg config.PubSubConfig) []option.ClientOption {
	if ep := strings.TrimSpace(cfg.Endpoint); ep != "" {
		return []option.ClientOption{option.WithEndpoint(ep), option.WithoutAuthentication()}
	}
	return nil
}

func (c *Client) checkTopic(ctx context.Context, name string) error {
	path := c.topicPath(name)
	if path == "" {
		return errNoTopic
	}
	_, err := c.ps.TopicAdminClient.GetTopic(ctx, &pubsubpb.GetTopicRequest{Topic: path})
	switch {
	case status.Code(err) == codes.NotFound:
		return fmt.Errorf("topic %s does not exist", path)
	case err != nil:
		return fmt.Errorf("looking up topic %s: %w", path, err)
	}
	return nil
}

// topicPath expands a bare topic id to projects/<p>/topics/<id>. Full paths pass through.
func (c *Client) topicPath(name string) string {
	name = strings.TrimSpace(name)
	switch {
	case c == nil || name == "":
		return ""
	case strings.HasPrefix(name, "projects/") && strings.Contains(name, "/topics/"):
		return name
	case c.project == "":
		return ""
	}
	return "projects/" + c.project + "/topics/" + name
}

// OrdersSender returns an ordered publisher for the orders topic.
func (c *Client) OrdersSender() *TopicSender {
	if c == nil || c.ps == nil {
		return nil
	}
	path := c.topicPath(c.orders)
	if path == "" {
		return nil
	}
	pub := c.ps.Publisher(path)
	pub.EnableMessageOrdering = true
	return &TopicSender{publisher: pub}
}

// Ping checks the orders topic is still reachable.
func (c *Client) Ping(ctx context.Context) error {
	if c == nil || c.ps == nil {
		return errNotReady
	}
	return c.checkTopic(ctx, c.orders)
}

func (c *Client) Close() error {
	if c == nil || c.ps == nil {
		return nil
	}
	return c.ps.Close()
}

// TopicSender publishes and waits for the server ack.
type TopicSender struct {
	publisher *pubsub.Publisher
}

// Send publishes data and returns the message id. Messages sharing an
// orderingKey are delivered in publish order; after a failed publish the key
// is resumed so later events for the same aggregate are not stuck.
func (s *TopicSender) Send(ctx context.Context, data []byte, attrs map[string]string, orderingKey string) (string, error) {
	if s == nil || s.publisher == nil {
		return "", errNotReady
	}
	id, err := s.publisher.Publish(ctx, &pubsub.Message{
		Data:        data,
		Attributes:  attrs,
		OrderingKey: orderingKey,
	}).Get(ctx)
	if err != nil && orderingKey != "" {
		s.publisher.ResumePublish(orderingKey)
	}
	return id, err
}

// Stop flushes buffered messages.
func (s *TopicSender) Stop() {
	if s != nil && s.publisher != nil {
		s.publisher.Stop()
	}
}
