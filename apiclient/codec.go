package apiclient

import "github.com/bytedance/sonic"

// json is the codec for request and response bodies. ConfigStd keeps
// encoding/json behaviour (sorted map keys, HTML escaping).
var json = sonic.ConfigStd
