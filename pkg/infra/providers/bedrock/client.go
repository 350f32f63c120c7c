package bedrock

import (
	"context"
	"fmt"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime/types"
	"github.com/rdd6584/blogqa/pkg/infra/providers"
	"golang.org/x/sync/singleflight"
)

const (
	DefaultModel  = "anthropic.claude-3-haiku-20240307-v1:0"
	DefaultRegion = "us-east-1"
)

//go:generate mockery --name=Converser --dir=. --output=./mocks --filename=converser_mock.go --case=underscore --with-expecter

type Converser interface {
	Converse(
		ctx context.Context,
		params *bedrockruntime.ConverseInput,
		optFns ...func(*bedrockruntime.Options),
	) (*bedrockruntime.ConverseOutput, error)
}

type ConverserFactory func(ctx context.Context, creds *providers.AwsCredentials) (Converser, error)

type client struct {
	clientPool *sync.Map
	sf         singleflight.Group
	factory    ConverserFactory
}

func NewBedrockClient() providers.Client {
	return NewBedrockClientWithFactory(newRuntimeClient)
}

func NewBedrockClientWithFactory(factory ConverserFactory) providers.Client {
	return &client{
		clientPool: &sync.Map{},
		factory:    factory,
	}
}

func (c *client) Ask(
	ctx context.Context,
	config *providers.Config,
	prompt string,
) (*providers.CompletionResponse, error) {
	model := config.Model
	if model == "" {
		model = DefaultModel
	}
	creds := config.Credentials.Aws
	if creds == nil {
		creds = &providers.AwsCredentials{}
	}

	runtime, err := c.getOrCreateClient(ctx, creds)
	if err != nil {
		return nil, err
	}

	input := &bedrockruntime.ConverseInput{
		ModelId: aws.String(model),
		Messages: []types.Message{
			{
				Role:    types.ConversationRoleUser,
				Content: []types.ContentBlock{&types.ContentBlockMemberText{Value: prompt}},
			},
		},
		InferenceConfig: &types.InferenceConfiguration{
			Temperature: aws.Float32(float32(config.Temperature)),
		},
	}
	if config.MaxTokens > 0 {
		input.InferenceConfig.MaxTokens = aws.Int32(int32(config.MaxTokens)) // #nosec G115
	}
	if config.SystemPrompt != "" {
		input.System = []types.SystemContentBlock{
			&types.SystemContentBlockMemberText{Value: config.SystemPrompt},
		}
	}

	out, err := runtime.Converse(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("bedrock converse failed: %w", err)
	}

	msg, ok := out.Output.(*types.ConverseOutputMemberMessage)
	if !ok || len(msg.Value.Content) == 0 {
		return nil, providers.ErrNoCompletion
	}
	var text string
	for _, block := range msg.Value.Content {
		if t, ok := block.(*types.ContentBlockMemberText); ok {
			text = t.Value
			break
		}
	}

	resp := &providers.CompletionResponse{
		ID:       fmt.Sprintf("bedrock-%s", model),
		Model:    model,
		Response: text,
	}
	if out.Usage != nil {
		resp.Usage = providers.Usage{
			PromptTokens:     int(aws.ToInt32(out.Usage.InputTokens)),
			CompletionTokens: int(aws.ToInt32(out.Usage.OutputTokens)),
			TotalTokens:      int(aws.ToInt32(out.Usage.TotalTokens)),
		}
	}
	return resp, nil
}

func (c *client) getOrCreateClient(ctx context.Context, creds *providers.AwsCredentials) (Converser, error) {
	key := creds.AccessKey + "|" + creds.Region
	if v, ok := c.clientPool.Load(key); ok {
		if cli, ok := v.(Converser); ok {
			return cli, nil
		}
	}
	v, err, _ := c.sf.Do(key, func() (any, error) {
		if v2, ok := c.clientPool.Load(key); ok {
			return v2, nil
		}
		cli, err := c.factory(ctx, creds)
		if err != nil {
			return nil, err
		}
		c.clientPool.Store(key, cli)
		return cli, nil
	})
	if err != nil {
		return nil, err
	}
	cli, ok := v.(Converser)
	if !ok {
		return nil, fmt.Errorf("unexpected bedrock client type %T", v)
	}
	return cli, nil
}

// newRuntimeClient uses static keys when present and the default AWS
// credential chain otherwise.
func newRuntimeClient(ctx context.Context, creds *providers.AwsCredentials) (Converser, error) {
	region := creds.Region
	if region == "" {
		region = DefaultRegion
	}
	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(region)}
	if creds.AccessKey != "" && creds.SecretKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(aws.CredentialsProviderFunc(
			func(ctx context.Context) (aws.Credentials, error) {
				return aws.Credentials{
					AccessKeyID:     creds.AccessKey,
					SecretAccessKey: creds.SecretKey,
					SessionToken:    creds.SessionToken,
				}, nil
			},
		)))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	return bedrockruntime.NewFromConfig(awsCfg), nil
}
