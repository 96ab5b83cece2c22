package shopify

// Admin GraphQL documents. Variants are fetched with the product page;
// 100 covers Shopify's per-product variant limit.

const getProductsQuery = `
query GetProducts($limit: Int!, $after: String, $query: String) {
  products(first: $limit, after: $after, query: $query) {
    nodes {
      id
      title
      status
      featuredImage {
        url
      }
      variants(first: 100) {
        nodes {
          id
          title
        }
      }
    }
    pageInfo {
      hasNextPage
      endCursor
    }
  }
}`

const getCollectionsQuery = `
query GetCollections($limit: Int!, $after: String, $query: String) {
  collections(first: $limit, after: $after, query: $query) {
    nodes {
      id
      title
    }
    pageInfo {
      hasNextPage
      endCursor
    }
  }
}`

const webhookSubscriptionCreateMutation = `
mutation WebhookSubscriptionCreate($topic: WebhookSubscriptionTopic!, $webhookSubscription: WebhookSubscriptionInput!) {
  webhookSubscriptionCreate(topic: $topic, webhookSubscription: $webhookSubscription) {
    webhookSubscription {
      id
    }
    userErrors {
      field
      message
    }
  }
}`
